package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/panbanda/junoscan/pkg/junos"
)

// catalogOf extracts a catalog from a configuration body wrapped in the
// rpc-reply envelope.
func catalogOf(t *testing.T, body string) *Catalog {
	t.Helper()
	doc, err := junos.Parse([]byte("<rpc-reply><configuration>" + body + "</configuration></rpc-reply>"))
	require.NoError(t, err)
	return Extract(doc, nil)
}

func bgp(groups string) string {
	return "<protocols><bgp>" + groups + "</bgp></protocols>"
}

func policyOptions(decls string) string {
	return "<policy-options>" + decls + "</policy-options>"
}

func catalogOfDocument(t *testing.T, doc string) *Catalog {
	t.Helper()
	parsed, err := junos.Parse([]byte(doc))
	require.NoError(t, err)
	return Extract(parsed, nil)
}
