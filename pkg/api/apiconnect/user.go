package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// UserServiceName is the fully-qualified name of the UserService.
const UserServiceName = "ledger.v1.UserService"

// Procedure paths, as used by handlers, clients and interceptors.
const (
	UserServiceListUsersProcedure = "/ledger.v1.UserService/ListUsers"
)

// UserServiceClient is a client for the ledger.v1.UserService service.
type UserServiceClient interface {
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewUserServiceClient constructs a client for the ledger.v1.UserService service. baseURL
// is the server root, e.g. http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &userServiceClient{
		listUsers: connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](
			httpClient,
			baseURL+UserServiceListUsersProcedure,
			opts...,
		),
	}
}

type userServiceClient struct {
	listUsers *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
}

func (c *userServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// UserServiceHandler is implemented by the server side of ledger.v1.UserService.
// The user directory.
type UserServiceHandler interface {
	// ListUsers searches users by display name or email.
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewUserServiceHandler builds an HTTP handler for svc. It returns the path to
// mount the handler on.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listUsersHandler := connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts...)
	return "/ledger.v1.UserService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceListUsersProcedure:
			listUsersHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
