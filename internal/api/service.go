package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "sanitizer.v1.Sanitizer"

const (
	Sanitizer_Authenticate_FullMethodName     = "/sanitizer.v1.Sanitizer/Authenticate"
	Sanitizer_ListDevices_FullMethodName      = "/sanitizer.v1.Sanitizer/ListDevices"
	Sanitizer_ScanDevices_FullMethodName      = "/sanitizer.v1.Sanitizer/ScanDevices"
	Sanitizer_SubmitJob_FullMethodName        = "/sanitizer.v1.Sanitizer/SubmitJob"
	Sanitizer_GetStatus_FullMethodName        = "/sanitizer.v1.Sanitizer/GetStatus"
	Sanitizer_ListJobs_FullMethodName         = "/sanitizer.v1.Sanitizer/ListJobs"
	Sanitizer_CancelJob_FullMethodName        = "/sanitizer.v1.Sanitizer/CancelJob"
	Sanitizer_GetCertificate_FullMethodName   = "/sanitizer.v1.Sanitizer/GetCertificate"
	Sanitizer_IssueCertificate_FullMethodName = "/sanitizer.v1.Sanitizer/IssueCertificate"
	Sanitizer_ListAudit_FullMethodName        = "/sanitizer.v1.Sanitizer/ListAudit"
	Sanitizer_CreateUser_FullMethodName       = "/sanitizer.v1.Sanitizer/CreateUser"
	Sanitizer_DeactivateUser_FullMethodName   = "/sanitizer.v1.Sanitizer/DeactivateUser"
	Sanitizer_Ping_FullMethodName             = "/sanitizer.v1.Sanitizer/Ping"
)

// SanitizerClient is the client API for the Sanitizer service.
type SanitizerClient interface {
	Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error)
	ListDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DevicesResponse, error)
	ScanDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DevicesResponse, error)
	SubmitJob(ctx context.Context, in *SubmitJobRequest, opts ...grpc.CallOption) (*SubmitJobResponse, error)
	GetStatus(ctx context.Context, in *JobRequest, opts ...grpc.CallOption) (*Job, error)
	ListJobs(ctx context.Context, in *ListJobsRequest, opts ...grpc.CallOption) (*ListJobsResponse, error)
	CancelJob(ctx context.Context, in *JobRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetCertificate(ctx context.Context, in *CertificateRequest, opts ...grpc.CallOption) (*CertificateResponse, error)
	IssueCertificate(ctx context.Context, in *CertificateRequest, opts ...grpc.CallOption) (*CertificateResponse, error)
	ListAudit(ctx context.Context, in *JobRequest, opts ...grpc.CallOption) (*AuditResponse, error)
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*User, error)
	DeactivateUser(ctx context.Context, in *DeactivateUserRequest, opts ...grpc.CallOption) (*User, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error)
}

type sanitizerClient struct {
	cc grpc.ClientConnInterface
}

func NewSanitizerClient(cc grpc.ClientConnInterface) SanitizerClient {
	return &sanitizerClient{cc}
}

func (c *sanitizerClient) Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error) {
	out := new(AuthenticateResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_Authenticate_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) ListDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DevicesResponse, error) {
	out := new(DevicesResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_ListDevices_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) ScanDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*DevicesResponse, error) {
	out := new(DevicesResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_ScanDevices_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) SubmitJob(ctx context.Context, in *SubmitJobRequest, opts ...grpc.CallOption) (*SubmitJobResponse, error) {
	out := new(SubmitJobResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_SubmitJob_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) GetStatus(ctx context.Context, in *JobRequest, opts ...grpc.CallOption) (*Job, error) {
	out := new(Job)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_GetStatus_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) ListJobs(ctx context.Context, in *ListJobsRequest, opts ...grpc.CallOption) (*ListJobsResponse, error) {
	out := new(ListJobsResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_ListJobs_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) CancelJob(ctx context.Context, in *JobRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_CancelJob_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) GetCertificate(ctx context.Context, in *CertificateRequest, opts ...grpc.CallOption) (*CertificateResponse, error) {
	out := new(CertificateResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_GetCertificate_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) IssueCertificate(ctx context.Context, in *CertificateRequest, opts ...grpc.CallOption) (*CertificateResponse, error) {
	out := new(CertificateResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_IssueCertificate_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) ListAudit(ctx context.Context, in *JobRequest, opts ...grpc.CallOption) (*AuditResponse, error) {
	out := new(AuditResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_ListAudit_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*User, error) {
	out := new(User)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_CreateUser_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) DeactivateUser(ctx context.Context, in *DeactivateUserRequest, opts ...grpc.CallOption) (*User, error) {
	out := new(User)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_DeactivateUser_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sanitizerClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, Sanitizer_Ping_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SanitizerServer is the server API for the Sanitizer service.
// Implementations must embed UnimplementedSanitizerServer.
type SanitizerServer interface {
	Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error)
	ListDevices(context.Context, *emptypb.Empty) (*DevicesResponse, error)
	ScanDevices(context.Context, *emptypb.Empty) (*DevicesResponse, error)
	SubmitJob(context.Context, *SubmitJobRequest) (*SubmitJobResponse, error)
	GetStatus(context.Context, *JobRequest) (*Job, error)
	ListJobs(context.Context, *ListJobsRequest) (*ListJobsResponse, error)
	CancelJob(context.Context, *JobRequest) (*emptypb.Empty, error)
	GetCertificate(context.Context, *CertificateRequest) (*CertificateResponse, error)
	IssueCertificate(context.Context, *CertificateRequest) (*CertificateResponse, error)
	ListAudit(context.Context, *JobRequest) (*AuditResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*User, error)
	DeactivateUser(context.Context, *DeactivateUserRequest) (*User, error)
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
	mustEmbedUnimplementedSanitizerServer()
}

// UnimplementedSanitizerServer answers every call with codes.Unimplemented.
type UnimplementedSanitizerServer struct{}

func (UnimplementedSanitizerServer) Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Authenticate not implemented")
}

func (UnimplementedSanitizerServer) ListDevices(context.Context, *emptypb.Empty) (*DevicesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListDevices not implemented")
}

func (UnimplementedSanitizerServer) ScanDevices(context.Context, *emptypb.Empty) (*DevicesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScanDevices not implemented")
}

func (UnimplementedSanitizerServer) SubmitJob(context.Context, *SubmitJobRequest) (*SubmitJobResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitJob not implemented")
}

func (UnimplementedSanitizerServer) GetStatus(context.Context, *JobRequest) (*Job, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStatus not implemented")
}

func (UnimplementedSanitizerServer) ListJobs(context.Context, *ListJobsRequest) (*ListJobsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListJobs not implemented")
}

func (UnimplementedSanitizerServer) CancelJob(context.Context, *JobRequest) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelJob not implemented")
}

func (UnimplementedSanitizerServer) GetCertificate(context.Context, *CertificateRequest) (*CertificateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCertificate not implemented")
}

func (UnimplementedSanitizerServer) IssueCertificate(context.Context, *CertificateRequest) (*CertificateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method IssueCertificate not implemented")
}

func (UnimplementedSanitizerServer) ListAudit(context.Context, *JobRequest) (*AuditResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListAudit not implemented")
}

func (UnimplementedSanitizerServer) CreateUser(context.Context, *CreateUserRequest) (*User, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateUser not implemented")
}

func (UnimplementedSanitizerServer) DeactivateUser(context.Context, *DeactivateUserRequest) (*User, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeactivateUser not implemented")
}

func (UnimplementedSanitizerServer) Ping(context.Context, *emptypb.Empty) (*PingResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedSanitizerServer) mustEmbedUnimplementedSanitizerServer() {}

func RegisterSanitizerServer(s grpc.ServiceRegistrar, srv SanitizerServer) {
	s.RegisterService(&Sanitizer_ServiceDesc, srv)
}

func _Sanitizer_Authenticate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AuthenticateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).Authenticate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_Authenticate_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).Authenticate(ctx, req.(*AuthenticateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_ListDevices_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).ListDevices(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_ListDevices_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).ListDevices(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_ScanDevices_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).ScanDevices(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_ScanDevices_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).ScanDevices(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_SubmitJob_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubmitJobRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).SubmitJob(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_SubmitJob_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).SubmitJob(ctx, req.(*SubmitJobRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_GetStatus_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(JobRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_GetStatus_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).GetStatus(ctx, req.(*JobRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_ListJobs_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListJobsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).ListJobs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_ListJobs_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).ListJobs(ctx, req.(*ListJobsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_CancelJob_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(JobRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).CancelJob(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_CancelJob_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).CancelJob(ctx, req.(*JobRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_GetCertificate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CertificateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).GetCertificate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_GetCertificate_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).GetCertificate(ctx, req.(*CertificateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_IssueCertificate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CertificateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).IssueCertificate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_IssueCertificate_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).IssueCertificate(ctx, req.(*CertificateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_ListAudit_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(JobRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).ListAudit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_ListAudit_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).ListAudit(ctx, req.(*JobRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_CreateUser_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateUserRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).CreateUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_CreateUser_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).CreateUser(ctx, req.(*CreateUserRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_DeactivateUser_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeactivateUserRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).DeactivateUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_DeactivateUser_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).DeactivateUser(ctx, req.(*DeactivateUserRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sanitizer_Ping_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SanitizerServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sanitizer_Ping_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SanitizerServer).Ping(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Sanitizer_ServiceDesc is the grpc.ServiceDesc for the Sanitizer service.
var Sanitizer_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SanitizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Authenticate",
			Handler:    _Sanitizer_Authenticate_Handler,
		},
		{
			MethodName: "ListDevices",
			Handler:    _Sanitizer_ListDevices_Handler,
		},
		{
			MethodName: "ScanDevices",
			Handler:    _Sanitizer_ScanDevices_Handler,
		},
		{
			MethodName: "SubmitJob",
			Handler:    _Sanitizer_SubmitJob_Handler,
		},
		{
			MethodName: "GetStatus",
			Handler:    _Sanitizer_GetStatus_Handler,
		},
		{
			MethodName: "ListJobs",
			Handler:    _Sanitizer_ListJobs_Handler,
		},
		{
			MethodName: "CancelJob",
			Handler:    _Sanitizer_CancelJob_Handler,
		},
		{
			MethodName: "GetCertificate",
			Handler:    _Sanitizer_GetCertificate_Handler,
		},
		{
			MethodName: "IssueCertificate",
			Handler:    _Sanitizer_IssueCertificate_Handler,
		},
		{
			MethodName: "ListAudit",
			Handler:    _Sanitizer_ListAudit_Handler,
		},
		{
			MethodName: "CreateUser",
			Handler:    _Sanitizer_CreateUser_Handler,
		},
		{
			MethodName: "DeactivateUser",
			Handler:    _Sanitizer_DeactivateUser_Handler,
		},
		{
			MethodName: "Ping",
			Handler:    _Sanitizer_Ping_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sanitizer/v1/sanitizer.proto",
}
