package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDeclarations(t *testing.T) {
	cat := catalogOf(t, policyOptions(`
		<prefix-list><name>PL1</name></prefix-list>
		<community><name>C1</name><members>65000:1</members></community>
		<as-path><name>AP1</name><path>.* 64500</path></as-path>
		<as-path-group>
			<name>APG</name>
			<as-path><name>AP2</name><path>64501</path></as-path>
		</as-path-group>
		<policy-statement><name>P</name></policy-statement>`)+
		bgp(`<group><name>G</name><neighbor><name>192.0.2.1</name></neighbor></group>`))

	assert.Equal(t, []string{"PL1"}, cat.Defined(TypePrefixList))
	assert.Equal(t, []string{"C1"}, cat.Defined(TypeCommunity))
	assert.Equal(t, []string{"AP1", "AP2"}, cat.Defined(TypeASPath))
	assert.Equal(t, []string{"APG"}, cat.Defined(TypeASPathGroup))
	assert.Equal(t, []string{"P"}, cat.Defined(TypePolicyStatement))
	assert.Equal(t, []string{"G"}, cat.Defined(TypeBGPGroup))
	assert.Equal(t, []string{"G"}, cat.EntryPoints())

	apg := cat.Lookup(Key{Type: TypeASPathGroup, Name: "APG"})
	require.Len(t, apg, 1)
	assert.Equal(t, []string{"AP2"}, apg[0].Members)
	assert.Equal(t, 1, cat.Census["policy-options"])
	assert.Equal(t, 1, cat.Census["bgp"])
}

func TestExtractReferenceForms(t *testing.T) {
	cat := catalogOf(t, policyOptions(`
		<policy-statement>
			<name>P</name>
			<term>
				<name>t1</name>
				<from>
					<prefix-list><name>PL-NAMED</name></prefix-list>
					<prefix-list>PL-LEAF</prefix-list>
					<prefix-list-filter><list_name>PL-FILTER</list_name><orlonger/></prefix-list-filter>
					<community>C-LEAF</community>
					<as-path>AP</as-path>
					<as-path-group><name>APG</name></as-path-group>
					<policy>(SUB1 || SUB2)</policy>
				</from>
				<then><community><add/><community-name>C-ADD</community-name></community></then>
			</term>
			<term>
				<name>t2</name>
				<from><route-filter><address>0.0.0.0/0</address><exact/></route-filter></from>
				<then><apply-policy>CHAIN1 &amp;&amp; CHAIN2</apply-policy></then>
			</term>
			<from><prefix-list-name>PL-BARE</prefix-list-name></from>
		</policy-statement>`))

	refs := cat.Refs(Key{Type: TypePolicyStatement, Name: "P"})
	got := make(map[Key]string)
	for _, r := range refs {
		assert.Equal(t, Key{Type: TypePolicyStatement, Name: "P"}, r.Source)
		got[r.Target] = r.Form
	}

	want := map[Key]string{
		{Type: TypePrefixList, Name: "PL-NAMED"}:    FormFromPrefixList,
		{Type: TypePrefixList, Name: "PL-LEAF"}:     FormFromPrefixList,
		{Type: TypePrefixList, Name: "PL-FILTER"}:   FormPrefixListFilter,
		{Type: TypePrefixList, Name: "PL-BARE"}:     FormPrefixListName,
		{Type: TypeCommunity, Name: "C-LEAF"}:       FormFromCommunity,
		{Type: TypeCommunity, Name: "C-ADD"}:        FormCommunityName,
		{Type: TypeASPath, Name: "AP"}:              FormFromASPath,
		{Type: TypeASPathGroup, Name: "APG"}:        FormFromASPathGroup,
		{Type: TypePolicyStatement, Name: "SUB1"}:   FormFromPolicy,
		{Type: TypePolicyStatement, Name: "SUB2"}:   FormFromPolicy,
		{Type: TypePolicyStatement, Name: "CHAIN1"}: FormApplyPolicy,
		{Type: TypePolicyStatement, Name: "CHAIN2"}: FormApplyPolicy,
	}
	assert.Equal(t, want, got)
}

func TestExtractBGPGroupChains(t *testing.T) {
	cat := catalogOf(t, bgp(`
		<group>
			<name>G</name>
			<import>IMP1</import>
			<import>IMP2</import>
			<export><policy-name>EXP1</policy-name><policy-name>EXP2 &amp;&amp; EXP3</policy-name></export>
			<neighbor><name>192.0.2.1</name><import>NB-IMP</import></neighbor>
		</group>`))

	var targets []string
	forms := make(map[string]string)
	for _, r := range cat.Refs(Key{Type: TypeBGPGroup, Name: "G"}) {
		targets = append(targets, r.Target.Name)
		forms[r.Target.Name] = r.Form
	}
	assert.ElementsMatch(t, []string{"IMP1", "IMP2", "EXP1", "EXP2", "EXP3", "NB-IMP"}, targets)
	assert.Equal(t, FormImport, forms["IMP1"])
	assert.Equal(t, FormExport, forms["EXP3"])
	assert.Equal(t, FormImport, forms["NB-IMP"])
}

func TestExtractActiveGroups(t *testing.T) {
	cat := catalogOf(t, bgp(`
		<group><name>ACTIVE</name><neighbor><name>192.0.2.1</name></neighbor></group>
		<group><name>IDLE</name><import>X</import></group>
		<group><name>UNNAMED-NEIGHBOR</name><neighbor><description>x</description></neighbor></group>`))

	assert.True(t, cat.IsActive("ACTIVE"))
	assert.False(t, cat.IsActive("IDLE"))
	assert.False(t, cat.IsActive("UNNAMED-NEIGHBOR"))
	assert.False(t, cat.IsActive("ABSENT"))
	assert.Equal(t, []string{"ACTIVE"}, cat.EntryPoints())
}

func TestExtractSkipsNamelessDeclarations(t *testing.T) {
	cat := catalogOf(t, policyOptions(`
		<prefix-list><prefix-list-item><name>10.0.0.0/8</name></prefix-list-item></prefix-list>
		<prefix-list><name>PL1</name></prefix-list>`))

	assert.Equal(t, []string{"PL1"}, cat.Defined(TypePrefixList))
	assert.Equal(t, 1, cat.Warnings)
}

func TestExtractGroupsProvenance(t *testing.T) {
	cat := catalogOf(t, `
		<groups>
			<name>COMMON</name>
			`+policyOptions(`<prefix-list><name>PL-GROUP</name></prefix-list>`)+`
		</groups>
		<apply-groups>COMMON</apply-groups>`+
		policyOptions(`<prefix-list><name>PL-GLOBAL</name></prefix-list>`))

	assert.Equal(t, []string{"PL-GLOBAL", "PL-GROUP"}, cat.Defined(TypePrefixList))

	group := cat.Lookup(Key{Type: TypePrefixList, Name: "PL-GROUP"})
	require.Len(t, group, 1)
	assert.Equal(t, ProvenanceInGroups, group[0].Provenance)

	global := cat.Lookup(Key{Type: TypePrefixList, Name: "PL-GLOBAL"})
	require.Len(t, global, 1)
	assert.Equal(t, ProvenanceGlobal, global[0].Provenance)
	assert.Equal(t, 1, cat.Census["apply-groups"])
}

func TestExtractMergesDuplicateNames(t *testing.T) {
	cat := catalogOf(t, `
		<groups><name>TPL</name>`+bgp(`<group><name>G</name><import>FROM-GROUP</import></group>`)+`</groups>`+
		bgp(`<group><name>G</name><neighbor><name>192.0.2.1</name></neighbor></group>`))

	assert.Equal(t, []string{"G"}, cat.Defined(TypeBGPGroup))
	assert.Len(t, cat.Lookup(Key{Type: TypeBGPGroup, Name: "G"}), 2)
	assert.True(t, cat.IsActive("G"), "any active declaration activates the group")

	refs := cat.Refs(Key{Type: TypeBGPGroup, Name: "G"})
	require.Len(t, refs, 1)
	assert.Equal(t, "FROM-GROUP", refs[0].Target.Name)
}

func TestExtractNamespacedDocument(t *testing.T) {
	doc := `<rpc-reply xmlns:junos="http://xml.juniper.net/junos/21.4R0/junos">
		<configuration xmlns="http://xml.juniper.net/xnm/1.1/xnm">` +
		policyOptions(`<policy-statement><name>P</name></policy-statement>`) +
		bgp(`<group><name>G</name><export>P</export><neighbor><name>192.0.2.1</name></neighbor></group>`) +
		`</configuration></rpc-reply>`

	cat := catalogOfDocument(t, doc)
	assert.Equal(t, []string{"P"}, cat.Defined(TypePolicyStatement))
	assert.Equal(t, []string{"G"}, cat.EntryPoints())
}

func TestDangling(t *testing.T) {
	cat := catalogOf(t, policyOptions(`
		<policy-statement>
			<name>P</name>
			<term><name>a</name><from><prefix-list><name>GHOST</name></prefix-list></from></term>
			<term><name>b</name><from><prefix-list><name>GHOST</name></prefix-list></from></term>
		</policy-statement>`)+
		bgp(`<group><name>G</name><import>P MISSING</import></group>`))

	dangling := cat.Dangling()
	require.Len(t, dangling, 2)
	targets := []string{dangling[0].Target.ID(), dangling[1].Target.ID()}
	assert.ElementsMatch(t, []string{"prefix-list.GHOST", "policy-statement.MISSING"}, targets)
}
