package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "vetcare.v1.SchedulingService"

const (
	methodListAvailableSlots  = "/" + serviceName + "/ListAvailableSlots"
	methodBookSlot            = "/" + serviceName + "/BookSlot"
	methodCancelAppointment   = "/" + serviceName + "/CancelAppointment"
	methodCompleteAppointment = "/" + serviceName + "/CompleteAppointment"
	methodGetAppointment      = "/" + serviceName + "/GetAppointment"
	methodListAppointments    = "/" + serviceName + "/ListAppointments"
)

// SchedulingServiceServer is the server side of vetcare.v1.SchedulingService.
type SchedulingServiceServer interface {
	ListAvailableSlots(ctx context.Context, req *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error)
	BookSlot(ctx context.Context, req *BookSlotRequest) (*BookSlotResponse, error)
	CancelAppointment(ctx context.Context, req *CancelAppointmentRequest) (*CancelAppointmentResponse, error)
	CompleteAppointment(ctx context.Context, req *CompleteAppointmentRequest) (*CompleteAppointmentResponse, error)
	GetAppointment(ctx context.Context, req *GetAppointmentRequest) (*GetAppointmentResponse, error)
	ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
}

func RegisterSchedulingServiceServer(s grpc.ServiceRegistrar, srv SchedulingServiceServer) {
	s.RegisterService(&SchedulingService_ServiceDesc, srv)
}

// unaryHandler builds a grpc.MethodDesc handler for one request type.
func unaryHandler[Req any, Resp any](fullMethod string, call func(srv SchedulingServiceServer, ctx context.Context, req *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SchedulingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SchedulingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var SchedulingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SchedulingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListAvailableSlots",
			Handler: unaryHandler(methodListAvailableSlots, func(srv SchedulingServiceServer, ctx context.Context, req *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error) {
				return srv.ListAvailableSlots(ctx, req)
			}),
		},
		{
			MethodName: "BookSlot",
			Handler: unaryHandler(methodBookSlot, func(srv SchedulingServiceServer, ctx context.Context, req *BookSlotRequest) (*BookSlotResponse, error) {
				return srv.BookSlot(ctx, req)
			}),
		},
		{
			MethodName: "CancelAppointment",
			Handler: unaryHandler(methodCancelAppointment, func(srv SchedulingServiceServer, ctx context.Context, req *CancelAppointmentRequest) (*CancelAppointmentResponse, error) {
				return srv.CancelAppointment(ctx, req)
			}),
		},
		{
			MethodName: "CompleteAppointment",
			Handler: unaryHandler(methodCompleteAppointment, func(srv SchedulingServiceServer, ctx context.Context, req *CompleteAppointmentRequest) (*CompleteAppointmentResponse, error) {
				return srv.CompleteAppointment(ctx, req)
			}),
		},
		{
			MethodName: "GetAppointment",
			Handler: unaryHandler(methodGetAppointment, func(srv SchedulingServiceServer, ctx context.Context, req *GetAppointmentRequest) (*GetAppointmentResponse, error) {
				return srv.GetAppointment(ctx, req)
			}),
		},
		{
			MethodName: "ListAppointments",
			Handler: unaryHandler(methodListAppointments, func(srv SchedulingServiceServer, ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
				return srv.ListAppointments(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vetcare/v1/scheduling.proto",
}

// SchedulingClient calls vetcare.v1.SchedulingService with the JSON codec.
type SchedulingClient struct {
	cc grpc.ClientConnInterface
}

func NewSchedulingClient(cc grpc.ClientConnInterface) *SchedulingClient {
	return &SchedulingClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulingClient) ListAvailableSlots(ctx context.Context, in *ListAvailableSlotsRequest, opts ...grpc.CallOption) (*ListAvailableSlotsResponse, error) {
	return invoke[ListAvailableSlotsResponse](ctx, c.cc, methodListAvailableSlots, in, opts)
}

func (c *SchedulingClient) BookSlot(ctx context.Context, in *BookSlotRequest, opts ...grpc.CallOption) (*BookSlotResponse, error) {
	return invoke[BookSlotResponse](ctx, c.cc, methodBookSlot, in, opts)
}

func (c *SchedulingClient) CancelAppointment(ctx context.Context, in *CancelAppointmentRequest, opts ...grpc.CallOption) (*CancelAppointmentResponse, error) {
	return invoke[CancelAppointmentResponse](ctx, c.cc, methodCancelAppointment, in, opts)
}

func (c *SchedulingClient) CompleteAppointment(ctx context.Context, in *CompleteAppointmentRequest, opts ...grpc.CallOption) (*CompleteAppointmentResponse, error) {
	return invoke[CompleteAppointmentResponse](ctx, c.cc, methodCompleteAppointment, in, opts)
}

func (c *SchedulingClient) GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*GetAppointmentResponse, error) {
	return invoke[GetAppointmentResponse](ctx, c.cc, methodGetAppointment, in, opts)
}

func (c *SchedulingClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c.cc, methodListAppointments, in, opts)
}
