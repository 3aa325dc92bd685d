// Package profilebun provides a Bun-backed profile store. Profiles remain
// read-only reference data; the table is seeded once on open and never
// written to afterwards.
package profilebun

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/oancholarevelo/invoice-builder/invoice"
	"github.com/oancholarevelo/invoice-builder/profile"
)

// Store resolves sender profiles from a Bun-backed SQLite database.
type Store struct {
	DB *bun.DB
}

// Open connects to the SQLite database at dsn, ensures the profiles table
// exists and seeds it with the given records when they are missing.
func Open(ctx context.Context, dsn string, seeds map[string]invoice.Profile) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "profile database open failed", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	store := &Store{DB: db}
	if err := store.seed(ctx, seeds); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// List returns every stored profile keyed by slug.
func (s *Store) List(ctx context.Context) (map[string]invoice.Profile, error) {
	if s == nil || s.DB == nil {
		return nil, invoice.NewError(invoice.KindInternal, "profile database not configured", nil)
	}

	var models []profileModel
	if err := s.DB.NewSelect().Model(&models).Order("key ASC").Scan(ctx); err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "profile list failed", err)
	}

	out := make(map[string]invoice.Profile, len(models))
	for _, m := range models {
		out[m.Key] = m.profile()
	}
	return out, nil
}

// Get resolves one profile by key. The custom key yields a blank profile.
func (s *Store) Get(ctx context.Context, key string) (invoice.Profile, error) {
	if s == nil || s.DB == nil {
		return invoice.Profile{}, invoice.NewError(invoice.KindInternal, "profile database not configured", nil)
	}
	if key == profile.CustomKey {
		return profile.Blank(), nil
	}

	var model profileModel
	err := s.DB.NewSelect().Model(&model).Where("key = ?", key).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return invoice.Profile{}, profile.ErrNotFound(key)
		}
		return invoice.Profile{}, invoice.NewError(invoice.KindInternal, "profile lookup failed", err)
	}
	return model.profile(), nil
}

func (s *Store) seed(ctx context.Context, seeds map[string]invoice.Profile) error {
	if _, err := s.DB.NewCreateTable().Model((*profileModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return invoice.NewError(invoice.KindInternal, "profile table create failed", err)
	}
	for key, p := range seeds {
		model := modelFromProfile(key, p)
		_, err := s.DB.NewInsert().Model(&model).On("CONFLICT (key) DO NOTHING").Exec(ctx)
		if err != nil {
			return invoice.NewError(invoice.KindInternal, "profile seed failed", err)
		}
	}
	return nil
}

type profileModel struct {
	bun.BaseModel `bun:"table:profiles,alias:profiles"`

	Key            string `bun:",pk"`
	Name           string `bun:",notnull"`
	LogoRef        string `bun:"logo_ref"`
	Address        string `bun:"address"`
	Email          string `bun:"email"`
	Phone          string `bun:"phone"`
	Portfolio      string `bun:"portfolio"`
	PaymentDetails string `bun:"payment_details"`
}

func (m profileModel) profile() invoice.Profile {
	return invoice.Profile{
		Name:           m.Name,
		LogoRef:        m.LogoRef,
		Address:        m.Address,
		Email:          m.Email,
		Phone:          m.Phone,
		Portfolio:      m.Portfolio,
		PaymentDetails: m.PaymentDetails,
	}
}

func modelFromProfile(key string, p invoice.Profile) profileModel {
	return profileModel{
		Key:            key,
		Name:           p.Name,
		LogoRef:        p.LogoRef,
		Address:        p.Address,
		Email:          p.Email,
		Phone:          p.Phone,
		Portfolio:      p.Portfolio,
		PaymentDetails: p.PaymentDetails,
	}
}
