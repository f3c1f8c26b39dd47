package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "profiles.v1.Profiles"

// Full method names, as seen by interceptors.
const (
	MethodRegister       = "/" + serviceName + "/Register"
	MethodLogin          = "/" + serviceName + "/Login"
	MethodLogout         = "/" + serviceName + "/Logout"
	MethodGetProfile     = "/" + serviceName + "/GetProfile"
	MethodListProfiles   = "/" + serviceName + "/ListProfiles"
	MethodUpdateProfile  = "/" + serviceName + "/UpdateProfile"
	MethodCreateFeedItem = "/" + serviceName + "/CreateFeedItem"
	MethodGetFeedItem    = "/" + serviceName + "/GetFeedItem"
	MethodListFeedItems  = "/" + serviceName + "/ListFeedItems"
	MethodUpdateFeedItem = "/" + serviceName + "/UpdateFeedItem"
	MethodDeleteFeedItem = "/" + serviceName + "/DeleteFeedItem"
)

// ProfilesServer is the server API of the profiles service.
type ProfilesServer interface {
	Register(context.Context, *RegisterRequest) (*Profile, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	GetProfile(context.Context, *GetProfileRequest) (*Profile, error)
	ListProfiles(context.Context, *Empty) (*ListProfilesResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*Profile, error)
	CreateFeedItem(context.Context, *CreateFeedItemRequest) (*FeedItem, error)
	GetFeedItem(context.Context, *GetFeedItemRequest) (*FeedItem, error)
	ListFeedItems(context.Context, *ListFeedItemsRequest) (*ListFeedItemsResponse, error)
	UpdateFeedItem(context.Context, *UpdateFeedItemRequest) (*FeedItem, error)
	DeleteFeedItem(context.Context, *DeleteFeedItemRequest) (*Empty, error)
}

// ServiceDesc describes the service without generated stubs; messages are
// encoded by the json codec.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ProfilesServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", ProfilesServer.Register),
		unary("Login", ProfilesServer.Login),
		unary("Logout", ProfilesServer.Logout),
		unary("GetProfile", ProfilesServer.GetProfile),
		unary("ListProfiles", ProfilesServer.ListProfiles),
		unary("UpdateProfile", ProfilesServer.UpdateProfile),
		unary("CreateFeedItem", ProfilesServer.CreateFeedItem),
		unary("GetFeedItem", ProfilesServer.GetFeedItem),
		unary("ListFeedItems", ProfilesServer.ListFeedItems),
		unary("UpdateFeedItem", ProfilesServer.UpdateFeedItem),
		unary("DeleteFeedItem", ProfilesServer.DeleteFeedItem),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "profiles/v1",
}

// RegisterProfilesServer registers srv on s.
func RegisterProfilesServer(s grpc.ServiceRegistrar, srv ProfilesServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](name string, call func(ProfilesServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + serviceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ProfilesServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProfilesServer), ctx, req.(*Req))
			})
		},
	}
}
