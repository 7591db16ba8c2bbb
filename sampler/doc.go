// Package sampler draws a stratified random sample of profile pairs. Pairs
// are grouped by their label, a fixed number is drawn from each group without
// replacement, and each pair's two members are resolved to profile locations.
// Pairs with a member that cannot be resolved are dropped.
package sampler
