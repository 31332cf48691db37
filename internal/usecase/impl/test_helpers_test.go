package impl

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"fintrack/config"
	"fintrack/internal/domain/entity"
	"fintrack/internal/domain/repository"
	"fintrack/internal/domain/service"
	"fintrack/internal/infra/auth"
	"fintrack/internal/infra/session"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- in-memory repository fakes ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) IncrementTokenVersion(_ context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	user.TokenVersion++

	return user.TokenVersion, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)

	return nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.UserID == category.UserID && existing.Name == category.Name && existing.Kind == category.Kind {
			return repository.ErrCategoryExists
		}
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	clone := *category
	r.categories[category.ID] = &clone

	return nil
}

func (r *fakeCategoryRepo) CreateBatch(ctx context.Context, categories []*entity.Category) error {
	for _, category := range categories {
		if err := r.Create(ctx, category); err != nil {
			return err
		}
	}

	return nil
}

func (r *fakeCategoryRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Category
	for _, category := range r.categories {
		if category.UserID == userID {
			clone := *category
			out = append(out, &clone)
		}
	}

	return out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id]
	if !ok || category.UserID != userID {
		return repository.ErrCategoryNotFound
	}
	delete(r.categories, id)

	return nil
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*entity.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: make(map[uuid.UUID]*entity.Transaction)}
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	clone := *tx
	r.transactions[tx.ID] = &clone

	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, repository.ErrTransactionNotFound
	}
	clone := *tx

	return &clone, nil
}

func (r *fakeTransactionRepo) ListByUserID(_ context.Context, userID uuid.UUID, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Transaction
	for _, tx := range r.transactions {
		if tx.UserID != userID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.From != nil && tx.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.Date.After(*filter.To) {
			continue
		}
		clone := *tx
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	return out, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, tx *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return repository.ErrTransactionNotFound
	}
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = time.Now()
	clone := *tx
	r.transactions[tx.ID] = &clone

	return nil
}

func (r *fakeTransactionRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok || tx.UserID != userID {
		return repository.ErrTransactionNotFound
	}
	delete(r.transactions, id)

	return nil
}

type budgetKey struct {
	userID uuid.UUID
	month  int
	year   int
}

type fakeBudgetRepo struct {
	mu      sync.Mutex
	budgets map[budgetKey]*entity.Budget
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: make(map[budgetKey]*entity.Budget)}
}

func (r *fakeBudgetRepo) Create(_ context.Context, budget *entity.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := budgetKey{budget.UserID, budget.Month, budget.Year}
	if _, ok := r.budgets[key]; ok {
		return repository.ErrBudgetExists
	}
	budget.ID = uuid.New()
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	clone := *budget
	r.budgets[key] = &clone

	return nil
}

func (r *fakeBudgetRepo) FindByMonth(_ context.Context, userID uuid.UUID, month, year int) (*entity.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	budget, ok := r.budgets[budgetKey{userID, month, year}]
	if !ok {
		return nil, repository.ErrBudgetNotFound
	}
	clone := *budget

	return &clone, nil
}

func (r *fakeBudgetRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Budget
	for _, budget := range r.budgets {
		if budget.UserID == userID {
			clone := *budget
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}

		return out[i].Month > out[j].Month
	})

	return out, nil
}

func (r *fakeBudgetRepo) Update(_ context.Context, budget *entity.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := budgetKey{budget.UserID, budget.Month, budget.Year}
	if _, ok := r.budgets[key]; !ok {
		return repository.ErrBudgetNotFound
	}
	budget.UpdatedAt = time.Now()
	clone := *budget
	r.budgets[key] = &clone

	return nil
}

func (r *fakeBudgetRepo) Delete(_ context.Context, userID uuid.UUID, month, year int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := budgetKey{userID, month, year}
	if _, ok := r.budgets[key]; !ok {
		return repository.ErrBudgetNotFound
	}
	delete(r.budgets, key)

	return nil
}

// fakeAnalyticsRepo derives its aggregates from the transaction fake so the
// sums stay consistent with what the tests insert.
type fakeAnalyticsRepo struct {
	transactions *fakeTransactionRepo
}

func (r *fakeAnalyticsRepo) inMonth(tx *entity.Transaction, month, year int) bool {
	return int(tx.Date.Month()) == month && tx.Date.Year() == year
}

func (r *fakeAnalyticsRepo) Overview(_ context.Context, userID uuid.UUID, now time.Time) (*entity.Overview, error) {
	r.transactions.mu.Lock()
	defer r.transactions.mu.Unlock()

	overview := &entity.Overview{}
	for _, tx := range r.transactions.transactions {
		if tx.UserID != userID {
			continue
		}
		overview.TransactionCount++
		current := r.inMonth(tx, int(now.Month()), now.Year())
		if tx.Type == entity.TransactionIncome {
			overview.TotalIncome += tx.Amount
			if current {
				overview.MonthIncome += tx.Amount
			}
		} else {
			overview.TotalExpense += tx.Amount
			if current {
				overview.MonthExpense += tx.Amount
			}
		}
	}
	overview.Balance = overview.TotalIncome - overview.TotalExpense

	return overview, nil
}

func (r *fakeAnalyticsRepo) MonthlyTotals(_ context.Context, userID uuid.UUID, now time.Time, months int) ([]*entity.MonthlyTotal, error) {
	r.transactions.mu.Lock()
	defer r.transactions.mu.Unlock()

	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]*entity.MonthlyTotal, 0, months)
	for offset := months - 1; offset >= 0; offset-- {
		cursor := base.AddDate(0, -offset, 0)
		total := &entity.MonthlyTotal{Month: int(cursor.Month()), Year: cursor.Year()}
		for _, tx := range r.transactions.transactions {
			if tx.UserID != userID || !r.inMonth(tx, total.Month, total.Year) {
				continue
			}
			if tx.Type == entity.TransactionIncome {
				total.Income += tx.Amount
			} else {
				total.Expense += tx.Amount
			}
		}
		out = append(out, total)
	}

	return out, nil
}

func (r *fakeAnalyticsRepo) CategoryTotals(_ context.Context, userID uuid.UUID, month, year int) ([]*entity.CategoryTotal, error) {
	r.transactions.mu.Lock()
	defer r.transactions.mu.Unlock()

	sums := make(map[string]float64)
	var total float64
	for _, tx := range r.transactions.transactions {
		if tx.UserID != userID || tx.Type != entity.TransactionExpense || !r.inMonth(tx, month, year) {
			continue
		}
		sums[tx.Category] += tx.Amount
		total += tx.Amount
	}

	out := make([]*entity.CategoryTotal, 0, len(sums))
	for category, amount := range sums {
		item := &entity.CategoryTotal{Category: category, Amount: amount}
		if total > 0 {
			item.Percent = amount / total * 100
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })

	return out, nil
}

func (r *fakeAnalyticsRepo) DailyTotals(_ context.Context, userID uuid.UUID, month, year int) ([]*entity.DailyTotal, error) {
	r.transactions.mu.Lock()
	defer r.transactions.mu.Unlock()

	sums := make(map[int]float64)
	for _, tx := range r.transactions.transactions {
		if tx.UserID != userID || tx.Type != entity.TransactionExpense || !r.inMonth(tx, month, year) {
			continue
		}
		sums[tx.Date.Day()] += tx.Amount
	}

	out := make([]*entity.DailyTotal, 0, len(sums))
	for day, amount := range sums {
		out = append(out, &entity.DailyTotal{Day: day, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })

	return out, nil
}

func (r *fakeAnalyticsRepo) ExpenseSumForMonth(_ context.Context, userID uuid.UUID, month, year int) (float64, error) {
	r.transactions.mu.Lock()
	defer r.transactions.mu.Unlock()

	var total float64
	for _, tx := range r.transactions.transactions {
		if tx.UserID == userID && tx.Type == entity.TransactionExpense && r.inMonth(tx, month, year) {
			total += tx.Amount
		}
	}

	return total, nil
}

// fakeFactory hands the same fakes back for every transaction.
type fakeFactory struct {
	userRepo        *fakeUserRepo
	categoryRepo    *fakeCategoryRepo
	transactionRepo repository.TransactionRepository
	budgetRepo      repository.BudgetRepository
}

func (f *fakeFactory) UserRepo() repository.UserRepository               { return f.userRepo }
func (f *fakeFactory) CategoryRepo() repository.CategoryRepository       { return f.categoryRepo }
func (f *fakeFactory) TransactionRepo() repository.TransactionRepository { return f.transactionRepo }
func (f *fakeFactory) BudgetRepo() repository.BudgetRepository           { return f.budgetRepo }

// fakeTxManager runs the callback directly; the fakes are already atomic
// enough for unit tests.
type fakeTxManager struct {
	factory *fakeFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// --- assembled service under test ---

type authFixture struct {
	service      usecase.AuthUsecase
	userRepo     *fakeUserRepo
	categoryRepo *fakeCategoryRepo
	tokenService service.TokenService
	refreshStore service.RefreshTokenStore
	loginGuard   service.LoginGuard
}

func newAuthFixture() *authFixture {
	cfg := &config.Config{}
	cfg.SecretKey.JWT = "test_jwt_secret_key_very_long_for_testing"

	tokenService, err := auth.NewJWTService(cfg)
	if err != nil {
		panic(err)
	}

	userRepo := newFakeUserRepo()
	categoryRepo := newFakeCategoryRepo()
	factory := &fakeFactory{userRepo: userRepo, categoryRepo: categoryRepo}
	refreshStore := session.NewMemoryRefreshStore()
	loginGuard := session.NewMemoryLoginGuard()

	svc := NewAuthService(AuthServiceParams{
		TxManager:    &fakeTxManager{factory: factory},
		UserRepo:     userRepo,
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokenService,
		RefreshStore: refreshStore,
		LoginGuard:   loginGuard,
		Logger:       slog.New(slog.DiscardHandler),
	})

	return &authFixture{
		service:      svc,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		tokenService: tokenService,
		refreshStore: refreshStore,
		loginGuard:   loginGuard,
	}
}

type transactionFixture struct {
	service         usecase.TransactionUsecase
	transactionRepo *fakeTransactionRepo
	categoryRepo    *fakeCategoryRepo
}

func newTransactionFixture() *transactionFixture {
	transactionRepo := newFakeTransactionRepo()
	categoryRepo := newFakeCategoryRepo()

	svc := NewTransactionService(TransactionServiceParams{
		TransactionRepo: transactionRepo,
		CategoryRepo:    categoryRepo,
		Logger:          slog.New(slog.DiscardHandler),
	})

	return &transactionFixture{
		service:         svc,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

type budgetFixture struct {
	service         usecase.BudgetUsecase
	budgetRepo      *fakeBudgetRepo
	transactionRepo *fakeTransactionRepo
}

func newBudgetFixture() *budgetFixture {
	budgetRepo := newFakeBudgetRepo()
	transactionRepo := newFakeTransactionRepo()
	factory := &fakeFactory{
		userRepo:        newFakeUserRepo(),
		categoryRepo:    newFakeCategoryRepo(),
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
	}

	svc := NewBudgetService(BudgetServiceParams{
		TxManager:     &fakeTxManager{factory: factory},
		BudgetRepo:    budgetRepo,
		AnalyticsRepo: &fakeAnalyticsRepo{transactions: transactionRepo},
		Logger:        slog.New(slog.DiscardHandler),
	})

	return &budgetFixture{
		service:         svc,
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

type analyticsFixture struct {
	service         usecase.AnalyticsUsecase
	transactionRepo *fakeTransactionRepo
}

func newAnalyticsFixture() *analyticsFixture {
	transactionRepo := newFakeTransactionRepo()

	svc := NewAnalyticsService(AnalyticsServiceParams{
		AnalyticsRepo: &fakeAnalyticsRepo{transactions: transactionRepo},
	})

	return &analyticsFixture{service: svc, transactionRepo: transactionRepo}
}
