// Package seed generates synthetic raw feedback for demo and load-testing
// environments.
package seed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

var sources = []string{
	"support_ticket",
	"github_issue",
	"community_discord",
	"email_feedback",
	"twitter",
}

var userTypes = []string{
	"developer",
	"indie_developer",
	"startup_customer",
	"enterprise_customer",
	"engineering_manager",
}

var countries = []string{"UK", "US", "DE", "JP", "TW", "IN"}

var productAreas = []string{
	"Workers",
	"Pages",
	"D1",
	"R2",
	"Workers AI",
	"WAF",
}

var contentTemplates = []string{
	"The documentation for {p} is confusing, especially around setup.",
	"Deployment failed with an unclear error message in {p}.",
	"After enabling {p}, we noticed increased latency during peak hours.",
	"Pricing for {p} is hard to estimate. Better usage forecasting would help.",
	"Migration to {p} was painful and lacked a clear checklist.",
}

const maxDaysAgo = 365

type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		faker: gofakeit.New(0),
		now:   time.Now,
	}
}

// NewSeededGenerator pins the random source for reproducible fixtures.
func NewSeededGenerator(seed int64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		faker: gofakeit.New(seed),
		now:   now,
	}
}

// Generate produces count records with stable zero-padded ids, so repeated
// seeding overwrites the same rows. Timestamps skew towards the recent past.
func (g *Generator) Generate(count int) []domain.RawFeedback {
	now := g.now().UTC()
	records := make([]domain.RawFeedback, 0, count)
	for i := 1; i <= count; i++ {
		productArea := g.faker.RandomString(productAreas)
		content := strings.ReplaceAll(g.faker.RandomString(contentTemplates), "{p}", productArea)
		daysAgo := int(math.Pow(g.faker.Float64Range(0, 1), 0.7) * maxDaysAgo)

		records = append(records, domain.RawFeedback{
			ID:          fmt.Sprintf("fb_%05d", i),
			Source:      g.faker.RandomString(sources),
			UserType:    g.faker.RandomString(userTypes),
			Country:     g.faker.RandomString(countries),
			ProductArea: productArea,
			Content:     content,
			CreatedAt:   now.AddDate(0, 0, -daysAgo),
		})
	}
	return records
}
