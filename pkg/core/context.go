package core

// Context bundles the capabilities a voice/trunk processor needs —
// Network, Affiliations, IdenTable, ACL, Clock — into a single value
// passed into every processor method, replacing the original's cyclic
// processor<->Control back-pointer (spec.md REDESIGN FLAGS item 1).
// Mirrors how the teacher's bridge.Router takes its collaborators
// (StreamTracker, ACL, PeerManager) as explicit constructor arguments
// rather than reaching for a shared global.
type Context struct {
	Network      Network
	Affiliations Affiliations
	Idens        IdenTable
	ACL          ACL
	Clock        Clock
}
