// Package apptest provee dobles en memoria de los puertos de persistencia para
// los tests de la capa de aplicación: un Store que implementa todos los
// repositorios y un FakeTxRunner que simula el todo-o-nada de una transacción
// con snapshot/restore del Store.
package apptest

import (
	"context"
	"sync"

	"github.com/tu-usuario/suite-pro/internal/domain/entity"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
	"github.com/tu-usuario/suite-pro/pkg/logger"
)

// Store almacena entidades por valor; los Get devuelven punteros a copias para
// que los tests no muten el estado por aliasing.
type Store struct {
	mu sync.Mutex

	Users           map[string]entity.User
	Orgs            map[string]entity.Organization
	Memberships     map[string]entity.Membership
	Roles           map[string]entity.Role
	RolePerms       map[string][]string // roleID -> permission keys
	MembershipRoles map[string][]string // membershipID -> roleIDs
	Modules         map[string]entity.Module
	OrgModules      map[string]entity.OrgModule // orgID + "/" + moduleID
	Subscriptions   map[string]entity.Subscription
	Bundles         map[string]entity.Bundle
	BundleModules   map[string][]entity.BundleModule
	Prices          map[string]entity.ModulePrice // moduleID/plan/period
	Payments        map[string]entity.Payment
	Employees       map[string]entity.Employee

	// Hooks para forzar fallos puntuales (tests de rollback).
	ApplyPlanErr       func(orgID, moduleID string) error
	UpsertOrgModuleErr func(om *entity.OrgModule) error
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		Users:           map[string]entity.User{},
		Orgs:            map[string]entity.Organization{},
		Memberships:     map[string]entity.Membership{},
		Roles:           map[string]entity.Role{},
		RolePerms:       map[string][]string{},
		MembershipRoles: map[string][]string{},
		Modules:         map[string]entity.Module{},
		OrgModules:      map[string]entity.OrgModule{},
		Subscriptions:   map[string]entity.Subscription{},
		Bundles:         map[string]entity.Bundle{},
		BundleModules:   map[string][]entity.BundleModule{},
		Prices:          map[string]entity.ModulePrice{},
		Payments:        map[string]entity.Payment{},
		Employees:       map[string]entity.Employee{},
	}
}

// QuietLogger logger silencioso para tests.
func QuietLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func omKey(orgID, moduleID string) string { return orgID + "/" + moduleID }

func priceKey(moduleID, plan, period string) string { return moduleID + "/" + plan + "/" + period }

// ── UserRepository ───────────────────────────────────────────────────────────

func (s *Store) Create(ctx context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users[u.ID] = *u
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) Update(ctx context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users[u.ID] = *u
	return nil
}

// ── OrganizationRepository (métodos con sufijo Org para no chocar con User) ──

// OrgRepo adapta el Store al puerto OrganizationRepository.
type OrgRepo struct{ S *Store }

func (r OrgRepo) Create(ctx context.Context, o *entity.Organization) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Orgs[o.ID] = *o
	return nil
}

func (r OrgRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if o, ok := r.S.Orgs[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (r OrgRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Organization, error) {
	return r.GetByID(ctx, id)
}

func (r OrgRepo) GetBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, o := range r.S.Orgs {
		if o.Slug == slug {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (r OrgRepo) Update(ctx context.Context, o *entity.Organization) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Orgs[o.ID] = *o
	return nil
}

func (r OrgRepo) List(ctx context.Context, limit, offset int) ([]*entity.Organization, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Organization
	for _, o := range r.S.Orgs {
		o := o
		out = append(out, &o)
	}
	return out, nil
}

// ── MembershipRepository ─────────────────────────────────────────────────────

// MembershipRepo adapta el Store al puerto MembershipRepository.
type MembershipRepo struct{ S *Store }

func (r MembershipRepo) Create(ctx context.Context, m *entity.Membership) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Memberships[m.ID] = *m
	return nil
}

func (r MembershipRepo) GetByID(ctx context.Context, id string) (*entity.Membership, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if m, ok := r.S.Memberships[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r MembershipRepo) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*entity.Membership, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, m := range r.S.Memberships {
		if m.UserID == userID && m.OrganizationID == orgID {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r MembershipRepo) Update(ctx context.Context, m *entity.Membership) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Memberships[m.ID] = *m
	return nil
}

func (r MembershipRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*entity.Membership, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Membership
	for _, m := range r.S.Memberships {
		if m.OrganizationID == orgID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r MembershipRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.Membership, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Membership
	for _, m := range r.S.Memberships {
		if m.UserID == userID && m.Status == entity.MembershipStatusActive {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r MembershipRepo) CountActiveByOrg(ctx context.Context, orgID string) (int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	count := 0
	for _, m := range r.S.Memberships {
		if m.OrganizationID == orgID && m.Status == entity.MembershipStatusActive {
			count++
		}
	}
	return count, nil
}

// ── RoleRepository ───────────────────────────────────────────────────────────

// RoleRepo adapta el Store al puerto RoleRepository.
type RoleRepo struct{ S *Store }

func (r RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Roles[role.ID] = *role
	return nil
}

func (r RoleRepo) GetGlobalByKey(ctx context.Context, key string) (*entity.Role, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, role := range r.S.Roles {
		if role.Key == key && role.OrganizationID == nil {
			role := role
			return &role, nil
		}
	}
	return nil, nil
}

func (r RoleRepo) ListByMembership(ctx context.Context, membershipID string) ([]*entity.Role, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Role
	for _, roleID := range r.S.MembershipRoles[membershipID] {
		if role, ok := r.S.Roles[roleID]; ok {
			role := role
			out = append(out, &role)
		}
	}
	return out, nil
}

func (r RoleRepo) PermissionKeysForMembership(ctx context.Context, membershipID string) ([]string, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, roleID := range r.S.MembershipRoles[membershipID] {
		for _, key := range r.S.RolePerms[roleID] {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out, nil
}

func (r RoleRepo) Attach(ctx context.Context, membershipID, roleID string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, existing := range r.S.MembershipRoles[membershipID] {
		if existing == roleID {
			return nil
		}
	}
	r.S.MembershipRoles[membershipID] = append(r.S.MembershipRoles[membershipID], roleID)
	return nil
}

func (r RoleRepo) Detach(ctx context.Context, membershipID, roleID string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	ids := r.S.MembershipRoles[membershipID]
	out := ids[:0]
	for _, id := range ids {
		if id != roleID {
			out = append(out, id)
		}
	}
	r.S.MembershipRoles[membershipID] = out
	return nil
}

// ── ModuleRepository ─────────────────────────────────────────────────────────

// ModuleRepo adapta el Store al puerto ModuleRepository.
type ModuleRepo struct{ S *Store }

func (r ModuleRepo) GetByID(ctx context.Context, id string) (*entity.Module, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if m, ok := r.S.Modules[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r ModuleRepo) GetByKey(ctx context.Context, key string) (*entity.Module, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, m := range r.S.Modules {
		if m.Key == key {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r ModuleRepo) ListActive(ctx context.Context) ([]*entity.Module, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Module
	for _, m := range r.S.Modules {
		if m.IsActive {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

// ── OrgModuleRepository ──────────────────────────────────────────────────────

// OrgModuleRepo adapta el Store al puerto OrgModuleRepository.
type OrgModuleRepo struct{ S *Store }

func (r OrgModuleRepo) GetByOrgAndModule(ctx context.Context, orgID, moduleID string) (*entity.OrgModule, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if om, ok := r.S.OrgModules[omKey(orgID, moduleID)]; ok {
		return &om, nil
	}
	return nil, nil
}

func (r OrgModuleRepo) ListByOrg(ctx context.Context, orgID string) ([]*entity.OrgModule, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.OrgModule
	for _, om := range r.S.OrgModules {
		if om.OrganizationID == orgID {
			om := om
			out = append(out, &om)
		}
	}
	return out, nil
}

func (r OrgModuleRepo) Upsert(ctx context.Context, om *entity.OrgModule) error {
	if r.S.UpsertOrgModuleErr != nil {
		if err := r.S.UpsertOrgModuleErr(om); err != nil {
			return err
		}
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.OrgModules[omKey(om.OrganizationID, om.ModuleID)] = *om
	return nil
}

func (r OrgModuleRepo) ApplyPlan(ctx context.Context, orgID, moduleID, plan string) error {
	if r.S.ApplyPlanErr != nil {
		if err := r.S.ApplyPlanErr(orgID, moduleID); err != nil {
			return err
		}
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	key := omKey(orgID, moduleID)
	om, ok := r.S.OrgModules[key]
	if !ok {
		om = entity.OrgModule{ID: key, OrganizationID: orgID, ModuleID: moduleID}
	}
	om.IsEnabled = true
	om.Plan = plan
	r.S.OrgModules[key] = om
	return nil
}

func (r OrgModuleRepo) SetEnabled(ctx context.Context, orgID, moduleID string, enabled bool) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	key := omKey(orgID, moduleID)
	om, ok := r.S.OrgModules[key]
	if !ok {
		return nil
	}
	om.IsEnabled = enabled
	r.S.OrgModules[key] = om
	return nil
}

// ── SubscriptionRepository ───────────────────────────────────────────────────

// SubscriptionRepo adapta el Store al puerto SubscriptionRepository.
type SubscriptionRepo struct{ S *Store }

func (r SubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if sub, ok := r.S.Subscriptions[id]; ok {
		return &sub, nil
	}
	return nil, nil
}

func (r SubscriptionRepo) GetByOrgAndModule(ctx context.Context, orgID, moduleID string) (*entity.Subscription, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, sub := range r.S.Subscriptions {
		if sub.OrganizationID == orgID && sub.ModuleID == moduleID {
			sub := sub
			return &sub, nil
		}
	}
	return nil, nil
}

func (r SubscriptionRepo) Upsert(ctx context.Context, sub *entity.Subscription) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Subscriptions[sub.ID] = *sub
	return nil
}

func (r SubscriptionRepo) Update(ctx context.Context, sub *entity.Subscription) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Subscriptions[sub.ID] = *sub
	return nil
}

func (r SubscriptionRepo) ListByOrg(ctx context.Context, orgID string) ([]*entity.Subscription, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Subscription
	for _, sub := range r.S.Subscriptions {
		if sub.OrganizationID == orgID {
			sub := sub
			out = append(out, &sub)
		}
	}
	return out, nil
}

// ── BundleRepository ─────────────────────────────────────────────────────────

// BundleRepo adapta el Store al puerto BundleRepository.
type BundleRepo struct{ S *Store }

func (r BundleRepo) GetByID(ctx context.Context, id string) (*entity.Bundle, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if b, ok := r.S.Bundles[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r BundleRepo) List(ctx context.Context) ([]*entity.Bundle, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Bundle
	for _, b := range r.S.Bundles {
		b := b
		out = append(out, &b)
	}
	return out, nil
}

func (r BundleRepo) ListModules(ctx context.Context, bundleID string) ([]*entity.BundleModule, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.BundleModule
	for _, bm := range r.S.BundleModules[bundleID] {
		bm := bm
		out = append(out, &bm)
	}
	return out, nil
}

// ── ModulePriceRepository ────────────────────────────────────────────────────

// PriceRepo adapta el Store al puerto ModulePriceRepository.
type PriceRepo struct{ S *Store }

func (r PriceRepo) Get(ctx context.Context, moduleID, plan, billingPeriod string) (*entity.ModulePrice, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Prices[priceKey(moduleID, plan, billingPeriod)]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r PriceRepo) ListByModule(ctx context.Context, moduleID string) ([]*entity.ModulePrice, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.ModulePrice
	for _, p := range r.S.Prices {
		if p.ModuleID == moduleID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r PriceRepo) Create(ctx context.Context, p *entity.ModulePrice) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Prices[priceKey(p.ModuleID, p.Plan, p.BillingPeriod)] = *p
	return nil
}

// ── PaymentRepository ────────────────────────────────────────────────────────

// PaymentRepo adapta el Store al puerto PaymentRepository.
type PaymentRepo struct{ S *Store }

func (r PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Payments[p.ID] = *p
	return nil
}

func (r PaymentRepo) GetByProviderRef(ctx context.Context, providerRef string) (*entity.Payment, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, p := range r.S.Payments {
		if p.ProviderRef == providerRef {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r PaymentRepo) MarkConfirmed(ctx context.Context, id string) (bool, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Payments[id]
	if !ok || p.Status != entity.PaymentStatusPending {
		return false, nil
	}
	p.Status = entity.PaymentStatusConfirmed
	r.S.Payments[id] = p
	return true, nil
}

// ── EmployeeRepository ───────────────────────────────────────────────────────

// EmployeeRepo adapta el Store al puerto EmployeeRepository.
type EmployeeRepo struct{ S *Store }

func (r EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Employees[e.ID] = *e
	return nil
}

func (r EmployeeRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*entity.Employee, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Employee
	for _, e := range r.S.Employees {
		if e.OrganizationID == orgID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r EmployeeRepo) CountActiveByOrg(ctx context.Context, orgID string) (int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	count := 0
	for _, e := range r.S.Employees {
		if e.OrganizationID == orgID && e.Status == entity.EmployeeStatusActive {
			count++
		}
	}
	return count, nil
}

// ── FakeTxRunner ─────────────────────────────────────────────────────────────

// FakeTxRunner simula la transacción sobre el Store: si la función falla, el
// Store vuelve al snapshot previo (rollback completo).
type FakeTxRunner struct{ S *Store }

func (r *FakeTxRunner) snapshot() *Store {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	snap := NewStore()
	for k, v := range r.S.Users {
		snap.Users[k] = v
	}
	for k, v := range r.S.Orgs {
		snap.Orgs[k] = v
	}
	for k, v := range r.S.Memberships {
		snap.Memberships[k] = v
	}
	for k, v := range r.S.Roles {
		snap.Roles[k] = v
	}
	for k, v := range r.S.RolePerms {
		snap.RolePerms[k] = append([]string(nil), v...)
	}
	for k, v := range r.S.MembershipRoles {
		snap.MembershipRoles[k] = append([]string(nil), v...)
	}
	for k, v := range r.S.Modules {
		snap.Modules[k] = v
	}
	for k, v := range r.S.OrgModules {
		snap.OrgModules[k] = v
	}
	for k, v := range r.S.Subscriptions {
		snap.Subscriptions[k] = v
	}
	for k, v := range r.S.Bundles {
		snap.Bundles[k] = v
	}
	for k, v := range r.S.BundleModules {
		snap.BundleModules[k] = append([]entity.BundleModule(nil), v...)
	}
	for k, v := range r.S.Prices {
		snap.Prices[k] = v
	}
	for k, v := range r.S.Payments {
		snap.Payments[k] = v
	}
	for k, v := range r.S.Employees {
		snap.Employees[k] = v
	}
	return snap
}

func (r *FakeTxRunner) restore(snap *Store) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Users = snap.Users
	r.S.Orgs = snap.Orgs
	r.S.Memberships = snap.Memberships
	r.S.Roles = snap.Roles
	r.S.RolePerms = snap.RolePerms
	r.S.MembershipRoles = snap.MembershipRoles
	r.S.Modules = snap.Modules
	r.S.OrgModules = snap.OrgModules
	r.S.Subscriptions = snap.Subscriptions
	r.S.Bundles = snap.Bundles
	r.S.BundleModules = snap.BundleModules
	r.S.Prices = snap.Prices
	r.S.Payments = snap.Payments
	r.S.Employees = snap.Employees
}

// RunAssignment implementa subscription.TxRunner.
func (r *FakeTxRunner) RunAssignment(ctx context.Context, fn func(
	orgRepo repository.OrganizationRepository,
	membershipRepo repository.MembershipRepository,
	employeeRepo repository.EmployeeRepository,
	omRepo repository.OrgModuleRepository,
	subRepo repository.SubscriptionRepository,
	payRepo repository.PaymentRepository,
) error) error {
	snap := r.snapshot()
	err := fn(OrgRepo{r.S}, MembershipRepo{r.S}, EmployeeRepo{r.S}, OrgModuleRepo{r.S}, SubscriptionRepo{r.S}, PaymentRepo{r.S})
	if err != nil {
		r.restore(snap)
	}
	return err
}

// RunIdentity implementa usecase.IdentityTxRunner.
func (r *FakeTxRunner) RunIdentity(ctx context.Context, fn func(
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	roleRepo repository.RoleRepository,
	employeeRepo repository.EmployeeRepository,
	omRepo repository.OrgModuleRepository,
) error) error {
	snap := r.snapshot()
	err := fn(OrgRepo{r.S}, r.S, MembershipRepo{r.S}, RoleRepo{r.S}, EmployeeRepo{r.S}, OrgModuleRepo{r.S})
	if err != nil {
		r.restore(snap)
	}
	return err
}

// NopNotifier implementación nula del puerto Notifier.
type NopNotifier struct{ Sent []string }

// Send registra el destinatario; nunca falla.
func (n *NopNotifier) Send(ctx context.Context, to, subject, body string) {
	n.Sent = append(n.Sent, to)
}
