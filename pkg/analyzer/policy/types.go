package policy

import "strings"

// EntityType classifies a configuration object.
type EntityType string

const (
	TypePrefixList      EntityType = "prefix-list"
	TypeCommunity       EntityType = "community"
	TypeASPath          EntityType = "as-path"
	TypeASPathGroup     EntityType = "as-path-group"
	TypePolicyStatement EntityType = "policy-statement"
	TypeBGPGroup        EntityType = "bgp-group"
)

// String returns the string representation.
func (t EntityType) String() string {
	return string(t)
}

// AllTypes lists every entity type in report order.
var AllTypes = []EntityType{
	TypePrefixList,
	TypeCommunity,
	TypeASPath,
	TypeASPathGroup,
	TypePolicyStatement,
	TypeBGPGroup,
}

// ParseEntityType returns the type named s.
func ParseEntityType(s string) (EntityType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Provenance records where a declaration was found. It is diagnostic only.
type Provenance string

const (
	ProvenanceGlobal   Provenance = "global"
	ProvenanceInGroups Provenance = "in groups"
)

// Key identifies an entity by type and name.
type Key struct {
	Type EntityType `json:"type"`
	Name string     `json:"name"`
}

// ID returns the "type.name" node identifier.
func (k Key) ID() string {
	return string(k.Type) + "." + k.Name
}

// String returns the node identifier.
func (k Key) String() string {
	return k.ID()
}

// Reference is a directed relationship from one entity to a named target.
type Reference struct {
	Source Key    `json:"source"`
	Target Key    `json:"target"`
	Form   string `json:"form"`
}

// Entity is one declaration of a named configuration object.
type Entity struct {
	Key
	Location   string      `json:"location"`
	Provenance Provenance  `json:"provenance"`
	Refs       []Reference `json:"refs,omitempty"`

	// Active is set for BGP groups with at least one configured neighbor.
	Active bool `json:"active,omitempty"`

	// Members holds the as-path names nested under an as-path-group.
	Members []string `json:"members,omitempty"`
}

// Reference form labels.
const (
	FormPrefixListName   = "prefix-list-name"
	FormFromPrefixList   = "from prefix-list"
	FormPrefixListFilter = "prefix-list-filter"
	FormFromCommunity    = "from community"
	FormCommunityName    = "community-name"
	FormFromASPath       = "from as-path"
	FormFromASPathGroup  = "from as-path-group"
	FormFromPolicy       = "from policy"
	FormApplyPolicy      = "apply-policy"
	FormPolicyName       = "policy-name"
	FormImport           = "import"
	FormExport           = "export"
	FormGroupMember      = "as-path-group member"
)
