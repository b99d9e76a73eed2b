// Package bridge converts raw Reddit objects into the uniform records the
// tool surface serializes, and gives every upstream failure one shape.
//
// # Normalization
//
// A raw submission is one of several mutually exclusive kinds. The
// normalizer classifies it into the closed PostType set and derives the
// content field by a per-variant rule:
//
//	link    -> permalink
//	text    -> body
//	gallery -> gallery link
//	unknown -> absent
//
// Comment trees are built by depth-bounded recursion. The depth budget is
// decremented once per level; a sub-tree below the budget is dropped
// silently, never reported as an error, and upstream child order is
// preserved exactly.
//
// # Errors
//
// Every operation returns either a fully normalized result or an *OpError
// naming the operation and the proximate cause. No upstream failure type
// crosses this boundary, nothing is retried, and no partial data
// accompanies an error.
package bridge
