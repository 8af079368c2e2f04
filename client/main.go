package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NischalAcharya060/GearZone-sub001/internal/bootstrap"
	"github.com/NischalAcharya060/GearZone-sub001/internal/config"
	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	model "github.com/NischalAcharya060/GearZone-sub001/internal/model"
	categoryRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/category"
	notificationRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/notification"
	productRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/product"
	reviewRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/review"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

// fixture is the seed file layout.
type fixture struct {
	Categories    []model.Category     `json:"categories"`
	Products      []model.Product      `json:"products"`
	Reviews       []model.Review       `json:"reviews"`
	Notifications []model.Notification `json:"notifications"`
}

type summary struct {
	categories, products, skipped, reviews, notifications int
}

func main() {
	fixturePath := pflag.StringP("fixture", "f", "./client/fixtures/catalog.json", "seed file to load")
	only := pflag.StringSlice("only", nil, "collections to seed (categories, products, reviews, notifications)")
	pflag.Parse()

	cnf := config.LoadConfigOrPanic()
	bootstrap.SetupLogger(cnf.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := bootstrap.OpenOrPanic(ctx, cnf)
	defer backend.Store.Close()

	f, err := readFixture(*fixturePath)
	if err != nil {
		panic(err)
	}

	s, err := seed(ctx, backend.Store, f, collections(*only))
	if err != nil {
		panic(err)
	}

	log.Info().
		Int("categories", s.categories).
		Int("products", s.products).
		Int("skippedProducts", s.skipped).
		Int("reviews", s.reviews).
		Int("notifications", s.notifications).
		Msg("seeding finished")
}

func collections(only []string) map[string]bool {
	if len(only) == 0 {
		return nil
	}
	out := map[string]bool{}
	for _, c := range only {
		out[strings.ToLower(strings.TrimSpace(c))] = true
	}
	return out
}

func readFixture(filePath string) (fixture, error) {
	jsonFile, err := os.Open(filePath)
	if err != nil {
		return fixture{}, fmt.Errorf("open fixture: %w", err)
	}
	defer jsonFile.Close()

	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return fixture{}, fmt.Errorf("read fixture: %w", err)
	}

	var f fixture
	if err := json.Unmarshal(byteValue, &f); err != nil {
		return fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return f, nil
}

// seed writes the fixture; only, when non-nil, restricts the collections.
// Products that already exist are skipped, everything else is written as is.
func seed(ctx context.Context, db database.Client, f fixture, only map[string]bool) (summary, error) {
	var s summary
	want := func(c string) bool { return only == nil || only[c] }

	if want("categories") {
		categoryRepo := categoryRepository.New(db)
		for _, c := range f.Categories {
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			if err := categoryRepo.Create(ctx, c); err != nil {
				return s, err
			}
			s.categories++
		}
	}

	if want("products") {
		productRepo := productRepository.New(db)
		for _, p := range f.Products {
			err := productRepo.Create(ctx, p)
			if errors.Is(err, ierr.AlreadyExists) {
				log.Warn().Str("id", p.ID).Msg("product already exists, skipping")
				s.skipped++
				continue
			}
			if err != nil {
				return s, err
			}
			s.products++
		}
	}

	if want("reviews") && len(f.Reviews) > 0 {
		reviews := make([]model.Review, len(f.Reviews))
		for i, r := range f.Reviews {
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
			reviews[i] = r
		}
		if err := reviewRepository.New(db).CreateAll(ctx, reviews); err != nil {
			return s, err
		}
		s.reviews = len(reviews)
	}

	if want("notifications") {
		notificationRepo := notificationRepository.New(db)
		for _, n := range f.Notifications {
			if n.ID == "" {
				n.ID = uuid.NewString()
			}
			if _, err := notificationRepo.Create(ctx, n); err != nil {
				return s, err
			}
			s.notifications++
		}
	}

	if s == (summary{}) {
		return s, errors.New("nothing to seed")
	}
	return s, nil
}
