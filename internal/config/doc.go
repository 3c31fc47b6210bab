// Package config loads connect configuration.
//
// Configuration comes from connect.json (or connect.yaml / connect.yml) in
// the working directory, then a .env file, then CONNECT_* environment
// variables. Every source is optional.
//
// # Configuration File Structure
//
//	{
//	  "devMode": true,
//	  "pure": true,
//	  "inspector": {
//	    "addr": "127.0.0.1:7331",
//	    "open": false
//	  },
//	  "metrics": {
//	    "namespace": "connect",
//	    "subsystem": "demo"
//	  },
//	  "tracing": {
//	    "tracerName": "github.com/vango-dev/connect"
//	  },
//	  "snapshot": {
//	    "bucket": "my-bucket",
//	    "prefix": "snapshots",
//	    "region": "us-east-1"
//	  }
//	}
//
// # Environment
//
//	CONNECT_DEV_MODE, CONNECT_PURE, CONNECT_INSPECTOR_ADDR,
//	CONNECT_INSPECTOR_OPEN, CONNECT_METRICS_NAMESPACE,
//	CONNECT_METRICS_SUBSYSTEM, CONNECT_TRACER_NAME, CONNECT_SNAPSHOT_BUCKET,
//	CONNECT_SNAPSHOT_PREFIX, CONNECT_SNAPSHOT_REGION,
//	CONNECT_SNAPSHOT_ENDPOINT
//
// # Usage
//
//	cfg, err := config.Resolve(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
