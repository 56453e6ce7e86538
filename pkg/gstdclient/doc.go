// Package gstdclient provides the primary entry point for constructing a
// GStreamer Daemon client that implements the gstd.Client interface.
//
// Quick start
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
//
//	  // Defaults to http://127.0.0.1:5001.
//	  cli, err := gstdclient.New(&gstd.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or a daemon elsewhere; the scheme is optional.
//	  cli, err = gstdclient.NewWithURL("10.0.0.5:5001")
//
//	  names, err := cli.Pipelines().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = names
//	}
//
// Address resolution
//
// Config.URL wins when set: surrounding spaces and trailing slashes are
// trimmed and "http://" is added when no scheme is given. Otherwise the URL
// is assembled from Scheme, Host and Port.
package gstdclient
