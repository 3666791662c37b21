package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey  = "documents"
	serviceName   = "pajama.remote.v1.DocumentStore"
	jsonCodecName = "json"
	MethodFind    = "/" + serviceName + "/Find"
	MethodRead    = "/" + serviceName + "/Read"
	MethodWrite   = "/" + serviceName + "/Write"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "PAJAMA_REMOTE_PLUGIN",
	MagicCookieValue: "pajama",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CallOption selects the JSON codec; servers pick it up from the
// content-subtype of the request.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(jsonCodecName)
}

type FindRequest struct{}

type FindResponse struct {
	Handle string `json:"handle"`
	Found  bool   `json:"found"`
}

type ReadRequest struct {
	Handle string `json:"handle"`
}

type ReadResponse struct {
	Blob []byte `json:"blob"`
}

type WriteRequest struct {
	Handle string `json:"handle"`
	Blob   []byte `json:"blob"`
}

type WriteResponse struct {
	Handle string `json:"handle"`
}

type DocumentStoreServer interface {
	Find(ctx context.Context, in *FindRequest) (*FindResponse, error)
	Read(ctx context.Context, in *ReadRequest) (*ReadResponse, error)
	Write(ctx context.Context, in *WriteRequest) (*WriteResponse, error)
}

type DocumentStoreClient interface {
	Find(ctx context.Context) (*FindResponse, error)
	Read(ctx context.Context, in *ReadRequest) (*ReadResponse, error)
	Write(ctx context.Context, in *WriteRequest) (*WriteResponse, error)
}

type documentStoreClient struct {
	conn grpc.ClientConnInterface
}

func NewDocumentStoreClient(conn grpc.ClientConnInterface) DocumentStoreClient {
	return &documentStoreClient{conn: conn}
}

func (c *documentStoreClient) Find(ctx context.Context) (*FindResponse, error) {
	out := &FindResponse{}
	if err := c.conn.Invoke(ctx, MethodFind, &FindRequest{}, out, CallOption()); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) Read(ctx context.Context, in *ReadRequest) (*ReadResponse, error) {
	out := &ReadResponse{}
	if err := c.conn.Invoke(ctx, MethodRead, in, out, CallOption()); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) Write(ctx context.Context, in *WriteRequest) (*WriteResponse, error) {
	out := &WriteResponse{}
	if err := c.conn.Invoke(ctx, MethodWrite, in, out, CallOption()); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterDocumentStoreServer(server grpc.ServiceRegistrar, impl DocumentStoreServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*DocumentStoreServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Find",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &FindRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Find(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodFind}
					handler := func(ctx context.Context, req any) (any, error) {
						typed, ok := req.(*FindRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Find(ctx, typed)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Read",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &ReadRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Read(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRead}
					handler := func(ctx context.Context, req any) (any, error) {
						typed, ok := req.(*ReadRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Read(ctx, typed)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Write",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &WriteRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Write(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodWrite}
					handler := func(ctx context.Context, req any) (any, error) {
						typed, ok := req.(*WriteRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Write(ctx, typed)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "pajama/remote/v1/document_store.proto",
	}, impl)
}

// GRPCPlugin serves and dispenses the document store over go-plugin.
type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl DocumentStoreServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterDocumentStoreServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewDocumentStoreClient(conn), nil
}

func PluginMap(impl DocumentStoreServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
