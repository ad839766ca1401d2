package service

import (
	"fmt"
	"math/rand"
	"sync"
)

var defaultTrendKeywords = []string{"technology", "AI", "innovation"}

var trendTemplates = []string{
	"Latest developments in %s",
	"How %s is changing the industry",
	"Future of %s in business",
	"Best practices for %s implementation",
	"Emerging %s trends to watch",
}

// TrendsService produces mock industry trends. A real implementation would
// pull from news APIs or RSS feeds.
type TrendsService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTrendsService(seed int64) *TrendsService {
	return &TrendsService{rnd: rand.New(rand.NewSource(seed))}
}

func (s *TrendsService) Trends(keywords []string) []string {
	if len(keywords) == 0 {
		keywords = defaultTrendKeywords
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trends := make([]string, 0, len(trendTemplates))
	for _, tmpl := range trendTemplates {
		keyword := keywords[s.rnd.Intn(len(keywords))]
		trends = append(trends, fmt.Sprintf(tmpl, keyword))
	}
	return trends
}

// Suggestions turns the top trends into content prompts.
func (s *TrendsService) Suggestions() []string {
	trends := s.Trends(nil)
	if len(trends) > 3 {
		trends = trends[:3]
	}

	suggestions := make([]string, 0, len(trends))
	for _, trend := range trends {
		suggestions = append(suggestions, "Write about: "+trend)
	}
	return suggestions
}
