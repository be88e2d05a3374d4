package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/repository"
	"github.com/articmaze/sizeapp/internal/shopify"
)

// -- Shopify fakes --

type graphQLCall struct {
	Operation string
	Variables map[string]interface{}
}

// fakeExecutor answers GraphQL calls by operation name and records them
type fakeExecutor struct {
	mu        sync.Mutex
	calls     []graphQLCall
	responses map[string]string
	errs      map[string]error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		responses: map[string]string{},
		errs:      map[string]error{},
	}
}

func (f *fakeExecutor) on(operation, data string) *fakeExecutor {
	f.responses[operation] = data
	return f
}

func (f *fakeExecutor) fail(operation string, err error) *fakeExecutor {
	f.errs[operation] = err
	return f
}

func (f *fakeExecutor) Execute(ctx context.Context, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error) {
	op := operationName(query)
	f.mu.Lock()
	f.calls = append(f.calls, graphQLCall{Operation: op, Variables: variables})
	f.mu.Unlock()

	if err := f.errs[op]; err != nil {
		return nil, err
	}
	data, ok := f.responses[op]
	if !ok {
		data = `{}`
	}
	return &shopify.GraphQLResponse{Data: json.RawMessage(data)}, nil
}

func (f *fakeExecutor) callsTo(operation string) []graphQLCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []graphQLCall
	for _, c := range f.calls {
		if c.Operation == operation {
			out = append(out, c)
		}
	}
	return out
}

func operationName(query string) string {
	for _, op := range []string{"productVariantsBulkCreate", "productVariantsBulkDelete", "metafieldsSet", "productVariants", "shopIdentity"} {
		if strings.Contains(query, "mutation "+op+"(") || strings.Contains(query, "query "+op+"(") || strings.Contains(query, "query "+op+" ") {
			return op
		}
	}
	return "unknown"
}

type fakeClients struct {
	exec    shopify.Executor
	err     error
	session *domain.Session
}

func (f *fakeClients) ForShop(ctx context.Context, shop string) (shopify.Executor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.exec, nil
}

func (f *fakeClients) ForSession(session *domain.Session) shopify.Executor {
	f.session = session
	return f.exec
}

// -- Scheduler fake --

type scheduledTask struct {
	Name  string
	Delay time.Duration
	Task  Task
}

// recordingScheduler keeps tasks until the test runs them
type recordingScheduler struct {
	mu    sync.Mutex
	tasks []scheduledTask
}

func (s *recordingScheduler) Schedule(name string, delay time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, scheduledTask{Name: name, Delay: delay, Task: task})
}

func (s *recordingScheduler) runAll(ctx context.Context) []error {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	var errs []error
	for _, t := range tasks {
		errs = append(errs, t.Task(ctx))
	}
	return errs
}

type publishCounter struct {
	mu    sync.Mutex
	shops []string
}

func (p *publishCounter) SchedulePublish(shop string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shops = append(p.shops, shop)
}

// -- Repository mocks --

type productRepoMock struct {
	mock.Mock
}

func (m *productRepoMock) List(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *productRepoMock) ListActive(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *productRepoMock) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *productRepoMock) UpsertSelected(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *productRepoMock) Delete(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *productRepoMock) UpdateBatch(ctx context.Context, products []*domain.Product) error {
	return m.Called(ctx, products).Error(0)
}

type settingsRepoMock struct {
	mock.Mock
}

func (m *settingsRepoMock) GetByShop(ctx context.Context, shop string) (*domain.Settings, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *settingsRepoMock) Upsert(ctx context.Context, settings *domain.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

type sessionRepoMock struct {
	mock.Mock
}

func (m *sessionRepoMock) GetByShop(ctx context.Context, shop string) (*domain.Session, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *sessionRepoMock) Upsert(ctx context.Context, session *domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *sessionRepoMock) UpdateShopID(ctx context.Context, shop, shopID string) error {
	return m.Called(ctx, shop, shopID).Error(0)
}

func (m *sessionRepoMock) DeleteByShop(ctx context.Context, shop string) error {
	return m.Called(ctx, shop).Error(0)
}

func newMockRepos() (*repository.Repositories, *productRepoMock, *settingsRepoMock, *sessionRepoMock) {
	products := &productRepoMock{}
	settings := &settingsRepoMock{}
	sessions := &sessionRepoMock{}
	return &repository.Repositories{
		Product:  products,
		Settings: settings,
		Session:  sessions,
	}, products, settings, sessions
}
