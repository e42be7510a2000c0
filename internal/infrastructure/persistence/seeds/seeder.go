package seeds

import (
	"context"
	"fmt"

	"fastighet/internal/domain/property"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/user"
	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type transactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Result counts what a seeding run created. Existing rows are left alone.
type Result struct {
	Properties int
	Units      int
	Users      int
	Categories int
}

// Seeder applies a fixture idempotently: properties are matched by name,
// units by property and number, users by e-mail and categories by name.
type Seeder struct {
	users      user.Repository
	properties property.Repository
	categories ticket.CategoryRepository
	txMgr      transactionRunner
	logger     logger.Interface
}

func NewSeeder(
	users user.Repository,
	properties property.Repository,
	categories ticket.CategoryRepository,
	txMgr transactionRunner,
	logger logger.Interface,
) *Seeder {
	return &Seeder{
		users:      users,
		properties: properties,
		categories: categories,
		txMgr:      txMgr,
		logger:     logger,
	}
}

// Run applies f in a single transaction.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (*Result, error) {
	result := &Result{}
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.apply(txCtx, f, result)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("seed data applied",
		"properties_created", result.Properties,
		"units_created", result.Units,
		"users_created", result.Users,
		"categories_created", result.Categories)
	return result, nil
}

func (s *Seeder) apply(ctx context.Context, f *Fixture, result *Result) error {
	propertyIDs := make(map[string]uint, len(f.Properties))
	unitIDs := make(map[UnitReference]uint)

	for _, pf := range f.Properties {
		p, created, err := s.ensureProperty(ctx, pf)
		if err != nil {
			return err
		}
		if created {
			result.Properties++
		}
		propertyIDs[pf.Name] = p.ID()

		for _, uf := range pf.Units {
			u, created, err := s.ensureUnit(ctx, p.ID(), uf)
			if err != nil {
				return err
			}
			if created {
				result.Units++
			}
			unitIDs[UnitReference{Property: pf.Name, Number: uf.Number}] = u.ID()
		}
	}

	for _, uf := range f.Users {
		u, created, err := s.ensureUser(ctx, uf)
		if err != nil {
			return err
		}
		if created {
			result.Users++
		}

		for _, ref := range uf.Units {
			u.MoveInto(unitIDs[ref], propertyIDs[ref.Property])
		}
		for _, name := range uf.Administers {
			u.Administer(propertyIDs[name])
		}
		if err := s.users.SaveRelations(ctx, u); err != nil {
			return fmt.Errorf("failed to link user %s: %w", uf.Email, err)
		}
	}

	n, err := s.ensureCategories(ctx, f.Categories)
	if err != nil {
		return err
	}
	result.Categories = n
	return nil
}

func (s *Seeder) ensureProperty(ctx context.Context, pf PropertyFixture) (*property.Property, bool, error) {
	existing, err := s.properties.GetByName(ctx, pf.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.IsNotFoundError(err) {
		return nil, false, fmt.Errorf("failed to look up property %q: %w", pf.Name, err)
	}

	p, err := property.NewProperty(pf.Name, pf.Address, pf.City)
	if err != nil {
		return nil, false, err
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("failed to create property %q: %w", pf.Name, err)
	}
	s.logger.Debugw("seeded property", "name", pf.Name, "property_id", p.ID())
	return p, true, nil
}

func (s *Seeder) ensureUnit(ctx context.Context, propertyID uint, uf UnitFixture) (*property.Unit, bool, error) {
	units, err := s.properties.ListUnits(ctx, propertyID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list units of property %d: %w", propertyID, err)
	}
	for _, u := range units {
		if u.UnitNumber() == uf.Number {
			return u, false, nil
		}
	}

	u, err := property.NewUnit(propertyID, uf.Number, uf.Floor)
	if err != nil {
		return nil, false, err
	}
	if err := s.properties.CreateUnit(ctx, u); err != nil {
		return nil, false, fmt.Errorf("failed to create unit %s: %w", uf.Number, err)
	}
	return u, true, nil
}

func (s *Seeder) ensureUser(ctx context.Context, uf UserFixture) (*user.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, uf.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.IsNotFoundError(err) {
		return nil, false, fmt.Errorf("failed to look up user %s: %w", uf.Email, err)
	}

	role, _ := authorization.ParseUserRole(uf.Role)
	u, err := user.NewUser(uf.Name, uf.Email, uf.Phone, role)
	if err != nil {
		return nil, false, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, false, fmt.Errorf("failed to create user %s: %w", uf.Email, err)
	}
	s.logger.Debugw("seeded user", "email", uf.Email, "role", role, "user_id", u.ID())
	return u, true, nil
}

func (s *Seeder) ensureCategories(ctx context.Context, fixtures []CategoryFixture) (int, error) {
	existing, err := s.categories.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list categories: %w", err)
	}
	names := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		names[c.Name()] = struct{}{}
	}

	created := 0
	for _, cf := range fixtures {
		if _, ok := names[cf.Name]; ok {
			continue
		}
		if _, err := s.categories.Create(ctx, cf.Name, cf.Description, cf.Icon); err != nil {
			return created, fmt.Errorf("failed to create category %q: %w", cf.Name, err)
		}
		names[cf.Name] = struct{}{}
		created++
	}
	return created, nil
}
