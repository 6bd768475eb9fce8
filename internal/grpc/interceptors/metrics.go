package interceptors

import (
	"context"
	"sort"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// MethodMetrics holds call statistics for one gRPC method
type MethodMetrics struct {
	Method          string           `json:"method"`
	RequestCount    int64            `json:"request_count"`
	SuccessCount    int64            `json:"success_count"`
	ErrorCount      int64            `json:"error_count"`
	ErrorsByCode    map[string]int64 `json:"errors_by_code,omitempty"`
	TotalDuration   time.Duration    `json:"total_duration"`
	AverageDuration time.Duration    `json:"average_duration"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// MetricsCollector collects per-method call statistics
type MetricsCollector struct {
	mu      sync.Mutex
	methods map[string]*MethodMetrics
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{methods: make(map[string]*MethodMetrics)}
}

// Record adds one finished call
func (c *MetricsCollector) Record(method string, duration time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.methods[method]
	if !ok {
		m = &MethodMetrics{Method: method}
		c.methods[method] = m
	}

	m.RequestCount++
	m.TotalDuration += duration
	m.AverageDuration = m.TotalDuration / time.Duration(m.RequestCount)
	m.LastUpdated = time.Now()

	if err == nil {
		m.SuccessCount++
		return
	}
	m.ErrorCount++
	if m.ErrorsByCode == nil {
		m.ErrorsByCode = make(map[string]int64)
	}
	m.ErrorsByCode[status.Code(err).String()]++
}

// Snapshot returns a copy of all metrics ordered by method name
func (c *MetricsCollector) Snapshot() []MethodMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]MethodMetrics, 0, len(c.methods))
	for _, m := range c.methods {
		cp := *m
		if m.ErrorsByCode != nil {
			cp.ErrorsByCode = make(map[string]int64, len(m.ErrorsByCode))
			for k, v := range m.ErrorsByCode {
				cp.ErrorsByCode[k] = v
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

// MetricsInterceptor records every unary call into c
func MetricsInterceptor(c *MetricsCollector) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		c.Record(info.FullMethod, time.Since(start), err)
		return resp, err
	}
}

// StreamMetricsInterceptor records every stream into c
func StreamMetricsInterceptor(c *MetricsCollector) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		c.Record(info.FullMethod, time.Since(start), err)
		return err
	}
}
