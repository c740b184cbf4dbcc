package company

// Config is one company's scraping configuration: where its blog lives and
// the CSS selectors its article list is expected to satisfy. Loaded once at
// startup and immutable afterwards.
type Config struct {
	Key                 string   `yaml:"key"`
	Name                string   `yaml:"name"`
	Category            string   `yaml:"category"`
	BlogURL             string   `yaml:"blog_url"`
	ArticleListSelector string   `yaml:"article_list_selector"`
	TitleSelector       string   `yaml:"title_selector"`
	DateSelector        string   `yaml:"date_selector"`
	RateLimitSeconds    int      `yaml:"rate_limit_seconds"`
	RequiresPlaywright  bool     `yaml:"requires_playwright"`
	Keywords            []string `yaml:"keywords"`
	Ticker              string   `yaml:"ticker"`
}
