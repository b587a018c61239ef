package mongo

import (
	"testing"

	"github.com/baticonnect/portal/internal/pkg/config"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.MongoConfig{URI: "mongodb://db:27017", Database: "portal"})
	if opts.AppName == nil || *opts.AppName != "portal" {
		t.Fatalf("expected app name portal, got %v", opts.AppName)
	}
	if len(opts.Hosts) != 1 || opts.Hosts[0] != "db:27017" {
		t.Fatalf("uri not applied: %v", opts.Hosts)
	}
	if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != connectTimeout {
		t.Fatalf("server selection timeout not set")
	}
}
