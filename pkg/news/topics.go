package news

// Search query expansions fanned out against the web search provider on
// every news run. Broad on purpose so the window filter has enough raw
// material to work with.
var topicExpansions = []string{
	"mortgage rates",
	"interest rates",
	"home prices",
	"real estate trends",
	"housing market trends",
	"feds and mortgages",
	"federal reserve and mortgages",
	"refinance trends",
	"fannie mae",
	"freddie mac",
	"cfpb regulations",
	"fhfa updates",
	"mortgage technology",
	"housing trends",
	"real estate news",
	"mortgage lending",
	"fannie and freddie",
	"mortgage market trends",
	"housing industry trends",
	"mortgage rate changes",
	"interest rate hikes",
	"housing market news",
	"mortgage refinancing",
	"refinancing trends",
	"refi trends",
	"mortgage industry analysis",
	"loan origination",
	"loan servicing",
	"mortgage-backed securities",
	"MBA mortgage",
	"mortgage industry news",
	"U.S. real estate",
	"home loans",
	"housing market analysis",
	"mortgage industry trends",
	"mortgage market updates",
	"interest rate changes",
	"Federal Reserve policies",
	"housing market forecasts",
	"mortgage industry regulations",
	"mortgage industry outlook",
	"housing market statistics",
	"U.S. home sales",
	"housing affordability",
	"mortgage lenders",
	"refinancing activity",
	"Fannie Mae mortgage",
	"Freddie Mac mortgage",
	"CFPB mortgage",
	"FHFA housing",
	"U.S. housing market",
}

var preferredDomains = map[string]bool{
	"apnews.com":               true,
	"nytimes.com":              true,
	"washingtonpost.com":       true,
	"wsj.com":                  true,
	"bloomberg.com":            true,
	"reuters.com":              true,
	"bankrate.com":             true,
	"thehill.com":              true,
	"politico.com":             true,
	"nbcnews.com":              true,
	"cbsnews.com":              true,
	"abcnews.go.com":           true,
	"usatoday.com":             true,
	"cnbc.com":                 true,
	"forbes.com":               true,
	"marketwatch.com":          true,
	"cnn.com":                  true,
	"bbc.com":                  true,
	"theguardian.com":          true,
	"ft.com":                   true,
	"economist.com":            true,
	"barrons.com":              true,
	"financialtimes.com":       true,
	"businessinsider.com":      true,
	"foxnews.com":              true,
	"housingwire.com":          true,
	"nationalmortgagenews.com": true,
	"mpamag.com":               true,
	"scotsmanguide.com":        true,
}

var deniedDomains = []string{
	"facebook.com",
	"twitter.com",
	"x.com",
	"reddit.com",
	"youtube.com",
}

// Looser than the chat domain gate on purpose: news prompts mention
// topics ("rates", "housing") rather than precise industry terms.
var industryContextTerms = []string{
	"mortgage",
	"feds",
	"federal reserve",
	"interest rates",
	"refinance",
	"refi",
	"fannie mae",
	"freddie mac",
	"gse",
	"ginnie mae",
	"fha loan",
	"va loan",
	"usda loan",
	"conforming loan limit",
	"jumbo loan",
	"underwriting",
	"origination",
	"servicing",
	"loss mitigation",
	"forbearance",
	"foreclosure",
	"mortgage loan",
	"loan estimate",
	"closing disclosure",
	"trid",
	"interest rate",
	"tila",
	"respa",
	"hmda",
	"escrow",
	"pmi",
	"mip",
	"llpa",
	"dti",
	"ltv",
	"fico",
	"mortgage industry",
	"housing industry",
	"housing market",
	"mortgage trends",
	"refinancing",
	"mortgage-backed securities",
	"mba",
	"mortgage market",
	"rates",
	"housing trends",
	"real estate trends",
	"housing market trends",
	"home prices",
	"home sales",
	"housing affordability",
	"mortgage lenders",
	"loan servicing",
	"housing",
	"home loan",
	"mortgage rates",
	"mbs",
	"fannie",
	"freddie",
	"cfpb",
	"fhfa",
}

var consumerIntentTerms = []string{
	"is now a good time",
	"good time to refinance",
	"should i",
	"should we",
	"is it worth",
	"for me",
	"my mortgage",
	"my loan",
}

type cluster struct {
	name     string
	keywords []string
}

var clusters = []cluster{
	{"Regulatory", []string{"cfpb", "fhfa", "rule", "enforcement"}},
	{"Policy", []string{"fed", "federal reserve", "interest rate", "monetary"}},
	{"Sales", []string{"home sales", "housing market", "real estate"}},
	{"Rates", []string{"mortgage rates", "refinance", "refi", "interest rates"}},
	{"Prices", []string{"home prices", "housing affordability"}},
	{"Lenders", []string{"lender", "loan origination", "loan servicing"}},
	{"Securities", []string{"mortgage-backed securities", "mbs"}},
	{"Refinance", []string{"refinance trends", "refi trends"}},
	{"Servicing", []string{"loan servicing", "servicer"}},
	{"Origination", []string{"loan origination", "originations"}},
	{"Fed", []string{"feds", "federal reserve"}},
	{"Guidelines", []string{"fannie", "freddie", "gse"}},
	{"Market", []string{"rates", "sales", "affordability", "mba"}},
}
