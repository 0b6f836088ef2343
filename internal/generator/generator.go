package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/erdos/backend/internal/domain"
)

// Generator produces a synthetic bibliography with dense author ids.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.NumAuthors <= 0 {
		cfg.NumAuthors = defaults.NumAuthors
	}
	if cfg.NumArticles <= 0 {
		cfg.NumArticles = defaults.NumArticles
	}
	if cfg.MaxAuthorsPerArticle <= 0 {
		cfg.MaxAuthorsPerArticle = defaults.MaxAuthorsPerArticle
	}
	if cfg.HubAuthors <= 0 {
		cfg.HubAuthors = defaults.HubAuthors
	}
	cfg.HubAuthors = min(cfg.HubAuthors, cfg.NumAuthors)
	if cfg.HubChance < 0 {
		cfg.HubChance = 0
	}
	if cfg.DuplicateLinkChance < 0 {
		cfg.DuplicateLinkChance = 0
	}
	if cfg.FirstYear <= 0 {
		cfg.FirstYear = defaults.FirstYear
	}
	if cfg.LastYear < cfg.FirstYear {
		cfg.LastYear = max(cfg.FirstYear, defaults.LastYear)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises authors, articles and authorship links. It respects
// context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.RecordBatch, error) {
	authors := make([]domain.Author, g.cfg.NumAuthors)
	seen := make(map[string]struct{}, g.cfg.NumAuthors)
	for i := range authors {
		if err := ctx.Err(); err != nil {
			return domain.RecordBatch{}, err
		}
		orcid := g.randomORCID()
		for {
			if _, dup := seen[orcid]; !dup {
				break
			}
			orcid = g.randomORCID()
		}
		seen[orcid] = struct{}{}

		authors[i] = domain.Author{
			ID:         int64(i),
			ORCID:      orcid,
			LastName:   g.pick(g.nameFragments.last),
			GivenNames: g.pick(g.nameFragments.given),
		}
	}

	articles := make([]domain.Article, g.cfg.NumArticles)
	var links []domain.Authorship
	for i := range articles {
		if err := ctx.Err(); err != nil {
			return domain.RecordBatch{}, err
		}
		doi := fmt.Sprintf("10.5555/erdos.%07d", i+1)
		articles[i] = domain.Article{
			DOI:             doi,
			Title:           g.randomTitle(),
			PublicationDate: g.cfg.FirstYear + g.rand.Intn(g.cfg.LastYear-g.cfg.FirstYear+1),
		}

		for _, idx := range g.pickAuthors() {
			link := domain.Authorship{AuthorORCID: authors[idx].ORCID, ArticleDOI: doi}
			links = append(links, link)
			if g.rand.Float64() < g.cfg.DuplicateLinkChance {
				links = append(links, link)
			}
		}
	}

	return domain.RecordBatch{
		Authors:     authors,
		Articles:    articles,
		Authorships: links,
	}, nil
}

// pickAuthors returns 1..MaxAuthorsPerArticle distinct author indexes.
func (g *Generator) pickAuthors() []int {
	n := 1 + g.rand.Intn(min(g.cfg.MaxAuthorsPerArticle, g.cfg.NumAuthors))
	chosen := make(map[int]struct{}, n)
	out := make([]int, 0, n)
	for len(out) < n {
		var idx int
		if g.rand.Float64() < g.cfg.HubChance {
			idx = g.rand.Intn(g.cfg.HubAuthors)
		} else {
			idx = g.rand.Intn(g.cfg.NumAuthors)
		}
		if _, dup := chosen[idx]; dup {
			continue
		}
		chosen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out
}

func (g *Generator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}

func (g *Generator) randomTitle() string {
	return fmt.Sprintf("%s %s of %s", g.pick(g.nameFragments.titleOpeners), g.pick(g.nameFragments.titleNouns), g.pick(g.nameFragments.titleObjects))
}

// randomORCID returns a well-formed ORCID iD with an ISO 7064 11,2 check character.
func (g *Generator) randomORCID() string {
	digits := make([]byte, 15)
	for i := range digits {
		digits[i] = byte('0' + g.rand.Intn(10))
	}
	check := orcidCheckDigit(digits)
	return fmt.Sprintf("%s-%s-%s-%s%c", digits[0:4], digits[4:8], digits[8:12], digits[12:15], check)
}

func orcidCheckDigit(digits []byte) byte {
	total := 0
	for _, d := range digits {
		total = (total + int(d-'0')) * 2
	}
	result := (12 - total%11) % 11
	if result == 10 {
		return 'X'
	}
	return byte('0' + result)
}

type nameFragments struct {
	given        []string
	last         []string
	titleOpeners []string
	titleNouns   []string
	titleObjects []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		given:        []string{"Paul", "Alfréd", "Pál", "Vera", "Ronald", "Fan", "László", "Endre", "Andrew", "Joel", "Noga", "Béla", "Miklós", "Terence", "Ingrid"},
		last:         []string{"Erdős", "Rényi", "Turán", "Sós", "Graham", "Chung", "Lovász", "Szemerédi", "Spencer", "Alon", "Bollobás", "Simonovits", "Tao", "Daubechies"},
		titleOpeners: []string{"On", "Remarks on", "A note on", "Some problems in", "Extremal", "Random"},
		titleNouns:   []string{"the evolution", "the chromatic number", "additive bases", "the distribution", "partitions", "Ramsey numbers"},
		titleObjects: []string{"random graphs", "hypergraphs", "prime numbers", "set systems", "finite geometries", "integer sequences"},
	}
}
