// Package config loads waypoint route manifests.
//
// A manifest is stored as waypoint.json or waypoint.toml. It lists the
// routes in match order and configures the tab server started by
// "waypoint serve".
//
// # Manifest Structure
//
//	{
//	  "name": "docs-site",
//	  "routes": [
//	    {"pattern": "users/{id}", "view": "user"},
//	    {"pattern": "docs/...", "view": "docs"}
//	  ],
//	  "server": {
//	    "addr": ":8080",
//	    "title": "Docs",
//	    "writeTimeout": "10s"
//	  },
//	  "metrics": {"enabled": true, "path": "/metrics"},
//	  "tracing": {"enabled": false},
//	  "log": {"level": "info", "format": "text"}
//	}
//
// The same manifest in TOML:
//
//	name = "docs-site"
//
//	[[routes]]
//	pattern = "users/{id}"
//	view = "user"
//
//	[server]
//	addr = ":8080"
//
// # Sources
//
// Open accepts a directory, a file path or an s3://bucket/key URI. Local
// manifests can be watched for changes with Watch.
package config
