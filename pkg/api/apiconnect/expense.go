package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService.
const ExpenseServiceName = "ledger.v1.ExpenseService"

// Procedure paths, as used by handlers, clients and interceptors.
const (
	ExpenseServiceCreateExpenseProcedure      = "/ledger.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure         = "/ledger.v1.ExpenseService/GetExpense"
	ExpenseServiceUpdateExpenseProcedure      = "/ledger.v1.ExpenseService/UpdateExpense"
	ExpenseServiceListExpensesProcedure       = "/ledger.v1.ExpenseService/ListExpenses"
	ExpenseServiceListMyExpensesProcedure     = "/ledger.v1.ExpenseService/ListMyExpenses"
	ExpenseServiceListFriendExpensesProcedure = "/ledger.v1.ExpenseService/ListFriendExpenses"
	ExpenseServiceListSharesProcedure         = "/ledger.v1.ExpenseService/ListShares"
)

// ExpenseServiceClient is a client for the ledger.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	ListMyExpenses(context.Context, *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	ListFriendExpenses(context.Context, *connect.Request[api.ListFriendExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	ListShares(context.Context, *connect.Request[api.ListSharesRequest]) (*connect.Response[api.ListSharesResponse], error)
}

// NewExpenseServiceClient constructs a client for the ledger.v1.ExpenseService service. baseURL
// is the server root, e.g. http://localhost:8080.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		createExpense: connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceCreateExpenseProcedure,
			opts...,
		),
		getExpense: connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceGetExpenseProcedure,
			opts...,
		),
		updateExpense: connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceUpdateExpenseProcedure,
			opts...,
		),
		listExpenses: connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceListExpensesProcedure,
			opts...,
		),
		listMyExpenses: connect.NewClient[api.ListMyExpensesRequest, api.ListExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceListMyExpensesProcedure,
			opts...,
		),
		listFriendExpenses: connect.NewClient[api.ListFriendExpensesRequest, api.ListExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceListFriendExpensesProcedure,
			opts...,
		),
		listShares: connect.NewClient[api.ListSharesRequest, api.ListSharesResponse](
			httpClient,
			baseURL+ExpenseServiceListSharesProcedure,
			opts...,
		),
	}
}

type expenseServiceClient struct {
	createExpense      *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense         *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	updateExpense      *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	listExpenses       *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	listMyExpenses     *connect.Client[api.ListMyExpensesRequest, api.ListExpensesResponse]
	listFriendExpenses *connect.Client[api.ListFriendExpensesRequest, api.ListExpensesResponse]
	listShares         *connect.Client[api.ListSharesRequest, api.ListSharesResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListMyExpenses(ctx context.Context, req *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listMyExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListFriendExpenses(ctx context.Context, req *connect.Request[api.ListFriendExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listFriendExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListShares(ctx context.Context, req *connect.Request[api.ListSharesRequest]) (*connect.Response[api.ListSharesResponse], error) {
	return c.listShares.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the server side of ledger.v1.ExpenseService.
// Expenses and their shares.
type ExpenseServiceHandler interface {
	// CreateExpense records an expense fronted by the caller and splits it into shares.
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)

	// GetExpense returns an expense the caller created or participates in.
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)

	// UpdateExpense changes an expense's title and description.
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)

	// ListExpenses lists expenses the caller created or participates in.
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)

	// ListMyExpenses lists expenses the caller fronted.
	ListMyExpenses(context.Context, *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)

	// ListFriendExpenses lists expenses shared with one friend.
	ListFriendExpenses(context.Context, *connect.Request[api.ListFriendExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)

	// ListShares lists shares the caller owes or is owed.
	ListShares(context.Context, *connect.Request[api.ListSharesRequest]) (*connect.Response[api.ListSharesResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler for svc. It returns the path to
// mount the handler on.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createExpenseHandler := connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	getExpenseHandler := connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...)
	updateExpenseHandler := connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...)
	listExpensesHandler := connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...)
	listMyExpensesHandler := connect.NewUnaryHandler(ExpenseServiceListMyExpensesProcedure, svc.ListMyExpenses, opts...)
	listFriendExpensesHandler := connect.NewUnaryHandler(ExpenseServiceListFriendExpensesProcedure, svc.ListFriendExpenses, opts...)
	listSharesHandler := connect.NewUnaryHandler(ExpenseServiceListSharesProcedure, svc.ListShares, opts...)
	return "/ledger.v1.ExpenseService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceCreateExpenseProcedure:
			createExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceGetExpenseProcedure:
			getExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceUpdateExpenseProcedure:
			updateExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceListExpensesProcedure:
			listExpensesHandler.ServeHTTP(w, r)
		case ExpenseServiceListMyExpensesProcedure:
			listMyExpensesHandler.ServeHTTP(w, r)
		case ExpenseServiceListFriendExpensesProcedure:
			listFriendExpensesHandler.ServeHTTP(w, r)
		case ExpenseServiceListSharesProcedure:
			listSharesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
