package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// StaffServiceName は gRPC のサービス名です。
const StaffServiceName = "staffregistry.v1.StaffService"

// StaffServiceServer は StaffService のサーバー側インターフェースです。
// リクエスト・レスポンスは google.protobuf.Struct で表現します。
type StaffServiceServer interface {
	CreateStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SearchStaff(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv StaffServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// StaffServiceDesc は StaffService の ServiceDesc です。
var StaffServiceDesc = grpc.ServiceDesc{
	ServiceName: StaffServiceName,
	HandlerType: (*StaffServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateStaff", Handler: unaryHandler("CreateStaff", StaffServiceServer.CreateStaff)},
		{MethodName: "GetStaff", Handler: unaryHandler("GetStaff", StaffServiceServer.GetStaff)},
		{MethodName: "ListStaff", Handler: unaryHandler("ListStaff", StaffServiceServer.ListStaff)},
		{MethodName: "UpdateStaff", Handler: unaryHandler("UpdateStaff", StaffServiceServer.UpdateStaff)},
		{MethodName: "DeleteStaff", Handler: unaryHandler("DeleteStaff", StaffServiceServer.DeleteStaff)},
		{MethodName: "SearchStaff", Handler: unaryHandler("SearchStaff", StaffServiceServer.SearchStaff)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "staffregistry/v1/staff.proto",
}

// RegisterStaffServiceServer は StaffService をサーバーへ登録します。
func RegisterStaffServiceServer(s grpc.ServiceRegistrar, srv StaffServiceServer) {
	s.RegisterService(&StaffServiceDesc, srv)
}

// FullMethod は "/staffregistry.v1.StaffService/<method>" 形式のメソッド名を返します。
func FullMethod(method string) string {
	return "/" + StaffServiceName + "/" + method
}

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StaffServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StaffServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
