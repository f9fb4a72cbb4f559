package social

import "strings"

// Agent is the kind of client requesting a share URL
type Agent int

const (
	Human Agent = iota
	Crawler
)

func (a Agent) String() string {
	if a == Crawler {
		return "crawler"
	}
	return "human"
}

// crawlerTokens are matched case-insensitively anywhere in the user agent.
// The trailing generic tokens catch bots not listed by name.
var crawlerTokens = []string{
	"facebookexternalhit",
	"twitterbot",
	"linkedinbot",
	"whatsapp",
	"telegrambot",
	"slackbot",
	"discordbot",
	"googlebot",
	"bingbot",
	"bot",
	"spider",
	"crawler",
}

// Classify reports whether userAgent belongs to a link-preview or search
// crawler. An empty user agent is treated as human.
func Classify(userAgent string) Agent {
	ua := strings.ToLower(userAgent)
	for _, token := range crawlerTokens {
		if strings.Contains(ua, token) {
			return Crawler
		}
	}
	return Human
}
