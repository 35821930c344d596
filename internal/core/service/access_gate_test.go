package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

type stubCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.Operator
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.Operator)}
}

func (c *stubCache) Get(_ context.Context, email string) (*domain.Operator, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	op, ok := c.entries[email]
	return cloneOperator(op), ok
}

func (c *stubCache) Set(_ context.Context, op *domain.Operator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[op.Email] = cloneOperator(op)
}

func (c *stubCache) Invalidate(_ context.Context, emails ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range emails {
		delete(c.entries, e)
		c.invalidated = append(c.invalidated, e)
	}
}

var _ ports.OperatorCache = (*stubCache)(nil)

func newTestGate(t *testing.T, repo *stubOperatorRepo, opts GateOptions) (*AccessGate, func(email string, role domain.Role) string) {
	t.Helper()
	codec := newTestCodec(t)
	gate := NewAccessGate(codec, repo, testHasher, nil, opts, discardLogger)
	issue := func(email string, role domain.Role) string {
		tok, _, err := codec.Issue(email, role)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		return tok
	}
	return gate, issue
}

func TestAccessGate_AllowsSufficientRole(t *testing.T) {
	repo := newStubOperatorRepo()
	seeded := seedOperator(t, repo, "rw@example.com", "pw", domain.RoleReadWrite)
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: true})

	op, err := gate.Require(context.Background(), issue("rw@example.com", domain.RoleReadWrite), domain.TierReadWrite)
	if err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
	if op.ID != seeded.ID {
		t.Fatalf("expected caller %s, got %s", seeded.ID, op.ID)
	}
}

func TestAccessGate_DeniesInsufficientRole(t *testing.T) {
	repo := newStubOperatorRepo()
	seedOperator(t, repo, "reader@example.com", "pw", domain.RoleRead)
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: true})

	_, err := gate.Require(context.Background(), issue("reader@example.com", domain.RoleRead), domain.TierReadWrite)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// The stored role decides, not the role claimed by the token.
func TestAccessGate_UsesStoredRole(t *testing.T) {
	repo := newStubOperatorRepo()
	seedOperator(t, repo, "demoted@example.com", "pw", domain.RoleRead)
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: true})

	_, err := gate.Require(context.Background(), issue("demoted@example.com", domain.RoleAdmin), domain.TierAdmin)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("a denied request must not create records")
	}
}

func TestAccessGate_DeniesUnknownStoredRole(t *testing.T) {
	repo := newStubOperatorRepo()
	seedOperator(t, repo, "odd@example.com", "pw", domain.Role("guest"))
	gate, issue := newTestGate(t, repo, GateOptions{})

	_, err := gate.Require(context.Background(), issue("odd@example.com", domain.RoleRead), domain.TierRead)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAccessGate_RejectsInvalidToken(t *testing.T) {
	repo := newStubOperatorRepo()
	gate, _ := newTestGate(t, repo, GateOptions{AutoProvision: true})

	_, err := gate.Require(context.Background(), "garbage", domain.TierRead)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccessGate_RejectsUnknownNonAdminSubject(t *testing.T) {
	repo := newStubOperatorRepo()
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: true})

	_, err := gate.Require(context.Background(), issue("ghost@example.com", domain.RoleReadWrite), domain.TierRead)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("expected no operator to be created")
	}
}

func TestAccessGate_ProvisionsUnknownAdminSubject(t *testing.T) {
	repo := newStubOperatorRepo()
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: true, FallbackPassword: "password123"})

	op, err := gate.Require(context.Background(), issue("new-admin@example.com", domain.RoleAdmin), domain.TierAdmin)
	if err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
	if op.Name != ProvisionedName || op.Role != domain.RoleAdmin || !op.Active || op.Email != "new-admin@example.com" {
		t.Fatalf("unexpected provisioned operator: %+v", op)
	}

	stored, err := repo.FindByEmail(context.Background(), "new-admin@example.com")
	if err != nil {
		t.Fatalf("operator not persisted: %v", err)
	}
	if !testHasher.Verify("password123", stored.PasswordHash) {
		t.Fatalf("expected configured fallback password to be hashed into the record")
	}
}

func TestAccessGate_ProvisionedWithRandomPasswordByDefault(t *testing.T) {
	repo := newStubOperatorRepo()
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: true})

	if _, err := gate.Require(context.Background(), issue("new-admin@example.com", domain.RoleAdmin), domain.TierAdmin); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
	stored, _ := repo.FindByEmail(context.Background(), "new-admin@example.com")
	if testHasher.Verify("password123", stored.PasswordHash) || testHasher.Verify("", stored.PasswordHash) {
		t.Fatalf("expected an unguessable password")
	}
}

func TestAccessGate_ProvisioningDisabled(t *testing.T) {
	repo := newStubOperatorRepo()
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: false})

	_, err := gate.Require(context.Background(), issue("new-admin@example.com", domain.RoleAdmin), domain.TierAdmin)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccessGate_ProvisionRecoversFromDuplicateKey(t *testing.T) {
	repo := newStubOperatorRepo()
	existing := seedOperator(t, repo, "raced@example.com", "pw", domain.RoleAdmin)
	repo.hideFirst = true // the gate's read misses, as if another instance inserted right after it
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: true})

	op, err := gate.Require(context.Background(), issue("raced@example.com", domain.RoleAdmin), domain.TierAdmin)
	if err != nil {
		t.Fatalf("expected allowed after duplicate key, got %v", err)
	}
	if op.ID != existing.ID {
		t.Fatalf("expected the existing record %s, got %s", existing.ID, op.ID)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one record, got %d", repo.count())
	}
}

func TestAccessGate_ConcurrentProvisioningCreatesOneRecord(t *testing.T) {
	repo := newStubOperatorRepo()
	// Two gates model two processes sharing one store.
	gateA, issue := newTestGate(t, repo, GateOptions{AutoProvision: true})
	gateB := NewAccessGate(newTestCodec(t), repo, testHasher, nil, GateOptions{AutoProvision: true}, discardLogger)
	token := issue("first@example.com", domain.RoleAdmin)

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	ids := make(chan string, callers)
	for i := 0; i < callers; i++ {
		gate := gateA
		if i%2 == 1 {
			gate = gateB
		}
		wg.Add(1)
		go func(g *AccessGate) {
			defer wg.Done()
			op, err := g.Require(context.Background(), token, domain.TierAdmin)
			if err != nil {
				errs <- err
				return
			}
			ids <- op.ID
		}(gate)
	}
	wg.Wait()
	close(errs)
	close(ids)

	for err := range errs {
		t.Fatalf("concurrent caller failed: %v", err)
	}
	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Fatalf("expected all callers to resolve one operator, got %v", seen)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one stored operator, got %d", repo.count())
	}
}

// blockingCreateRepo holds Create until released and then honours ctx.
type blockingCreateRepo struct {
	*stubOperatorRepo
	enter   sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *blockingCreateRepo) Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error) {
	r.enter.Do(func() { close(r.entered) })
	<-r.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.stubOperatorRepo.Create(ctx, op)
}

func TestAccessGate_ProvisioningSurvivesInitiatorCancel(t *testing.T) {
	repo := &blockingCreateRepo{
		stubOperatorRepo: newStubOperatorRepo(),
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	codec := newTestCodec(t)
	gate := NewAccessGate(codec, repo, testHasher, nil, GateOptions{AutoProvision: true}, discardLogger)
	token, _, err := codec.Issue("first@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	initiatorCtx, cancel := context.WithCancel(context.Background())
	initiator := make(chan error, 1)
	go func() {
		_, err := gate.Require(initiatorCtx, token, domain.TierAdmin)
		initiator <- err
	}()
	<-repo.entered

	waiter := make(chan error, 1)
	go func() {
		_, err := gate.Require(context.Background(), token, domain.TierAdmin)
		waiter <- err
	}()

	cancel()
	close(repo.release)

	if err := <-initiator; err != nil {
		t.Fatalf("initiator: %v", err)
	}
	if err := <-waiter; err != nil {
		t.Fatalf("waiter: %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("expected one stored operator, got %d", repo.count())
	}
}

func TestAccessGate_StoreErrorIsNotCredentialsError(t *testing.T) {
	repo := newStubOperatorRepo()
	repo.findErr = errors.New("store down")
	gate, issue := newTestGate(t, repo, GateOptions{AutoProvision: true})

	_, err := gate.Require(context.Background(), issue("admin@example.com", domain.RoleAdmin), domain.TierAdmin)
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected a store error, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("a failure path must not provision")
	}
}

func TestAccessGate_ResolvesFromCache(t *testing.T) {
	repo := newStubOperatorRepo()
	cache := newStubCache()
	cache.Set(context.Background(), &domain.Operator{ID: "c1", Email: "cached@example.com", Role: domain.RoleAdmin})
	repo.findErr = errors.New("store must not be hit")
	codec := newTestCodec(t)
	gate := NewAccessGate(codec, repo, testHasher, cache, GateOptions{}, discardLogger)

	tok, _, _ := codec.Issue("cached@example.com", domain.RoleAdmin)
	op, err := gate.Require(context.Background(), tok, domain.TierAdmin)
	if err != nil {
		t.Fatalf("expected cache hit, got %v", err)
	}
	if op.ID != "c1" {
		t.Fatalf("unexpected operator %+v", op)
	}
}

func TestAccessGate_PopulatesCacheOnMiss(t *testing.T) {
	repo := newStubOperatorRepo()
	seedOperator(t, repo, "rw@example.com", "pw", domain.RoleReadWrite)
	cache := newStubCache()
	codec := newTestCodec(t)
	gate := NewAccessGate(codec, repo, testHasher, cache, GateOptions{}, discardLogger)

	tok, _, _ := codec.Issue("rw@example.com", domain.RoleReadWrite)
	if _, err := gate.Require(context.Background(), tok, domain.TierRead); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
	if _, ok := cache.Get(context.Background(), "rw@example.com"); !ok {
		t.Fatalf("expected resolved operator to be cached")
	}
}
