// Package gstd provides types, interfaces, and helpers for controlling a
// GStreamer Daemon (gst-daemon) over its HTTP interface.
//
// # Overview
//
// The gstd package defines the wire types (Envelope, Property, BusMessage,
// SignalEvent), the resource-oriented client interfaces (PipelinesClient,
// ElementsClient, BusClient, EventsClient, SignalsClient, DebugClient) and the
// error taxonomy every operation reports through. A concrete implementation
// is provided by the gstdclient package.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/skylineagle/gstd-go/pkg/gstd"
//	  "github.com/skylineagle/gstd-go/pkg/gstdclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := gstdclient.New(&gstd.Config{URL: "http://127.0.0.1:5001"})
//	  if err != nil { log.Fatal(err) }
//
//	  _, err = cli.Pipelines().Create(ctx, "p1", "videotestsrc ! autovideosink")
//	  if err != nil { log.Fatal(err) }
//
//	  _, err = cli.Pipelines().Play(ctx, "p1")
//	  if err != nil { log.Fatal(err) }
//	}
//
// # Errors
//
// Every operation returns either nil or one of two classified errors,
// possibly wrapped with context:
//
//   - *ClientError: the daemon could not be reached, the exchange failed, or
//     the reply could not be understood. Code is one of the ErrorCode values.
//   - *DaemonError: the daemon answered and reported a failure. Code belongs
//     to the daemon; DaemonCode* constants name the common ones.
//
// Use AsClientError/AsDaemonError to branch on the code, or the IsNotFound,
// IsConflict, IsUnreachable and IsTimeout helpers. A daemon reply is a
// failure when its body carries a non-zero code, even with HTTP 200.
//
// The client never retries, caches, or tracks pipeline state. Cleanup after
// a failed workflow (for example deleting a half-configured pipeline) is up
// to the caller.
//
// # Blocking calls
//
// Bus reads and signal callbacks block on the daemon until a message or
// signal arrives or the daemon-side timeout elapses; both then return nil,
// nil. WaitForMessage and WaitForSignal configure that timeout and wait in
// separate round trips, so concurrent callers sharing a pipeline must
// serialize themselves. Use the context to bound the wait on the client side.
//
// # Interceptors and metrics
//
// An InterceptorChain set on Config runs around every request. The package
// ships logging, header, request-ID, bearer-token and rate-limit interceptors
// and a Prometheus MetricsCollector.
package gstd
