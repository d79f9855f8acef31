package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// BalanceServiceName is the fully-qualified name of the BalanceService.
const BalanceServiceName = "ledger.v1.BalanceService"

// Procedure paths, as used by handlers, clients and interceptors.
const (
	BalanceServiceGetOverallBalanceProcedure = "/ledger.v1.BalanceService/GetOverallBalance"
	BalanceServiceGetFriendBalanceProcedure  = "/ledger.v1.BalanceService/GetFriendBalance"
	BalanceServiceListFriendsProcedure       = "/ledger.v1.BalanceService/ListFriends"
)

// BalanceServiceClient is a client for the ledger.v1.BalanceService service.
type BalanceServiceClient interface {
	GetOverallBalance(context.Context, *connect.Request[api.GetOverallBalanceRequest]) (*connect.Response[api.GetOverallBalanceResponse], error)
	GetFriendBalance(context.Context, *connect.Request[api.GetFriendBalanceRequest]) (*connect.Response[api.GetFriendBalanceResponse], error)
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
}

// NewBalanceServiceClient constructs a client for the ledger.v1.BalanceService service. baseURL
// is the server root, e.g. http://localhost:8080.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &balanceServiceClient{
		getOverallBalance: connect.NewClient[api.GetOverallBalanceRequest, api.GetOverallBalanceResponse](
			httpClient,
			baseURL+BalanceServiceGetOverallBalanceProcedure,
			opts...,
		),
		getFriendBalance: connect.NewClient[api.GetFriendBalanceRequest, api.GetFriendBalanceResponse](
			httpClient,
			baseURL+BalanceServiceGetFriendBalanceProcedure,
			opts...,
		),
		listFriends: connect.NewClient[api.ListFriendsRequest, api.ListFriendsResponse](
			httpClient,
			baseURL+BalanceServiceListFriendsProcedure,
			opts...,
		),
	}
}

type balanceServiceClient struct {
	getOverallBalance *connect.Client[api.GetOverallBalanceRequest, api.GetOverallBalanceResponse]
	getFriendBalance  *connect.Client[api.GetFriendBalanceRequest, api.GetFriendBalanceResponse]
	listFriends       *connect.Client[api.ListFriendsRequest, api.ListFriendsResponse]
}

func (c *balanceServiceClient) GetOverallBalance(ctx context.Context, req *connect.Request[api.GetOverallBalanceRequest]) (*connect.Response[api.GetOverallBalanceResponse], error) {
	return c.getOverallBalance.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetFriendBalance(ctx context.Context, req *connect.Request[api.GetFriendBalanceRequest]) (*connect.Response[api.GetFriendBalanceResponse], error) {
	return c.getFriendBalance.CallUnary(ctx, req)
}

func (c *balanceServiceClient) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	return c.listFriends.CallUnary(ctx, req)
}

// BalanceServiceHandler is implemented by the server side of ledger.v1.BalanceService.
// Balances derived from open shares.
type BalanceServiceHandler interface {
	// GetOverallBalance returns the caller's net position with breakdowns.
	GetOverallBalance(context.Context, *connect.Request[api.GetOverallBalanceRequest]) (*connect.Response[api.GetOverallBalanceResponse], error)

	// GetFriendBalance returns the net position between the caller and one friend.
	GetFriendBalance(context.Context, *connect.Request[api.GetFriendBalanceRequest]) (*connect.Response[api.GetFriendBalanceResponse], error)

	// ListFriends lists everyone the caller shares expenses with.
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler for svc. It returns the path to
// mount the handler on.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getOverallBalanceHandler := connect.NewUnaryHandler(BalanceServiceGetOverallBalanceProcedure, svc.GetOverallBalance, opts...)
	getFriendBalanceHandler := connect.NewUnaryHandler(BalanceServiceGetFriendBalanceProcedure, svc.GetFriendBalance, opts...)
	listFriendsHandler := connect.NewUnaryHandler(BalanceServiceListFriendsProcedure, svc.ListFriends, opts...)
	return "/ledger.v1.BalanceService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BalanceServiceGetOverallBalanceProcedure:
			getOverallBalanceHandler.ServeHTTP(w, r)
		case BalanceServiceGetFriendBalanceProcedure:
			getFriendBalanceHandler.ServeHTTP(w, r)
		case BalanceServiceListFriendsProcedure:
			listFriendsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
