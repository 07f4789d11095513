package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeAnalyze() string {
	return `Runs the full analysis of a Junos configuration exported as XML
("show configuration | display xml").

USE WHEN:
- Auditing a router configuration for stale policy objects
- Getting an overview before editing policy-options or BGP groups

INTERPRETING RESULTS:
- entry_points are BGP groups with at least one neighbor; only they make objects used
- unused lists, per type, declared objects no entry point can reach
- independent_components group objects that reference each other
- dangling lists references to names that are never declared

METRICS RETURNED:
- summary: defined, used and unused counts per entity type
- unused, independent_components, cycles, dangling, warnings`
}

func describeUnused() string {
	return `Lists prefix-lists, communities, as-paths, as-path-groups, policy-statements
and BGP groups that are declared but unreachable from any active BGP group.

USE WHEN:
- Preparing a cleanup change for policy-options
- Checking whether a policy can be deleted safely

INTERPRETING RESULTS:
- A BGP group without neighbors contributes nothing, so objects only it references are unused
- Objects declared under "groups" count like global ones
- Names matching exclude patterns in the config file are listed separately as excluded

METRICS RETURNED:
- unused: type -> sorted names
- summary: defined, used and unused counts per entity type
- excluded: type.name identifiers suppressed by configuration`
}

func describeComponents() string {
	return `Partitions the reference graph into weakly-connected components with no
inbound edge from outside, and reports reference cycles.

USE WHEN:
- Finding self-contained groups of policy objects that can be moved or removed together
- Spotting policies that call each other in a loop

INTERPRETING RESULTS:
- Each component is a list of type.name identifiers
- Components are ordered largest first
- A cycle is a set of objects that reach each other, or one object that references itself

METRICS RETURNED:
- independent_components: lists of type.name identifiers
- cycles: lists of type.name identifiers`
}

func describeGraph() string {
	return `Exports the reference graph of the configuration: every policy-statement,
BGP group and as-path-group, plus every declared object they reference.

USE WHEN:
- Visualizing how BGP groups, policies and match lists depend on each other
- Feeding the dependency structure to another tool

INTERPRETING RESULTS:
- Edges point from the referencing object to the referenced one
- Each edge carries the form of the reference (import, export, from-prefix-list, ...)
- References to undeclared names produce no edge

METRICS RETURNED:
- nodes: id, name, type
- edges: from, to, form
- render "mermaid" or "dot" returns diagram source instead`
}
