package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"inventory/app/category"
	"inventory/app/product"
	"inventory/pkg/httperror"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const CatalogServiceName = "inventory.v1.CatalogService"

const (
	listCategoriesMethod = "/" + CatalogServiceName + "/ListCategories"
	listProductsMethod   = "/" + CatalogServiceName + "/ListProducts"
)

// CatalogServer is the read-only catalog. Responses use the same JSON field
// names as the HTTP list pages, carried in a google.protobuf.Struct.
type CatalogServer interface {
	ListCategories(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListProducts(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCategories", Handler: listCategoriesHandler},
		{MethodName: "ListProducts", Handler: listProductsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/catalog.proto",
}

func listCategoriesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).ListCategories(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listCategoriesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).ListCategories(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listProductsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).ListProducts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listProductsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).ListProducts(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogClient calls CatalogServer over a client connection.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) ListCategories(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listCategoriesMethod, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) ListProducts(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listProductsMethod, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CatalogService serves the catalog through the same list handlers the HTTP
// pages use.
type CatalogService struct {
	categories *category.GetCategoriesHandler
	products   *product.GetProductsHandler
}

func NewCatalogService(categories category.Repository, products product.Repository) *CatalogService {
	return &CatalogService{
		categories: category.NewGetCategoriesHandler(categories),
		products:   product.NewGetProductsHandler(products),
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := s.categories.Handle(ctx, &category.GetCategoriesRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(res)
}

func (s *CatalogService) ListProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := s.products.Handle(ctx, &product.GetProductsRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(res)
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return s, nil
}

func mapError(err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		switch httpErr.Status {
		case 404:
			return status.Error(codes.NotFound, httpErr.Message)
		case 422:
			return status.Error(codes.InvalidArgument, httpErr.Message)
		}
	}
	return status.Error(codes.Internal, "internal error")
}
