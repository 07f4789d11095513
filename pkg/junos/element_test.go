package junos

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T, body string) *xmlquery.Node {
	t.Helper()
	doc, err := Parse([]byte("<rpc-reply><configuration>" + body + "</configuration></rpc-reply>"))
	require.NoError(t, err)
	return doc.Configuration
}

func TestElementHelpers(t *testing.T) {
	cfg := parseConfig(t, `
		<policy-options>
			<policy-statement>
				<name> EXPORT </name>
				<term><name>t1</name><from><community>C1</community></from></term>
			</policy-statement>
			<community name="C1"><members>65000:1</members></community>
		</policy-options>`)

	po := Child(cfg, "policy-options")
	require.NotNil(t, po)
	assert.Len(t, Elements(po), 2)

	ps := Child(po, "policy-statement")
	assert.Equal(t, "EXPORT", Name(ps))
	assert.False(t, IsLeaf(ps))
	assert.Equal(t, "configuration/policy-options/policy-statement[EXPORT]", Path(ps))

	comm := Child(po, "community")
	assert.Equal(t, "C1", Name(comm), "name attribute form")

	var leaf *xmlquery.Node
	Walk(ps, func(el *xmlquery.Node) bool {
		if el.Data == "community" {
			leaf = el
		}
		return true
	})
	require.NotNil(t, leaf)
	assert.True(t, IsLeaf(leaf))
	assert.Equal(t, "C1", Text(leaf))
	assert.Equal(t, "from", ParentName(leaf))
	assert.True(t, HasAncestor(leaf, "policy-statement"))
	assert.False(t, HasAncestor(leaf, "groups"))
}

func TestWalkSkipsSubtree(t *testing.T) {
	cfg := parseConfig(t, `<groups><group-a><x/></group-a></groups><protocols><bgp/></protocols>`)

	var seen []string
	Walk(cfg, func(el *xmlquery.Node) bool {
		seen = append(seen, el.Data)
		return el.Data != "groups"
	})
	assert.Equal(t, "groups protocols bgp", strings.Join(seen, " "))
}

func TestNilSafety(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "", Name(nil))
	assert.Equal(t, "", ParentName(nil))
	assert.False(t, HasAncestor(nil, "x"))
	assert.Nil(t, Child(nil, "x"))
	Walk(nil, func(*xmlquery.Node) bool {
		t.Fatal("walk visited nil")
		return true
	})
}
