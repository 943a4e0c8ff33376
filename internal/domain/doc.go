// Package domain defines the core business entities of the trade fair
// marketplace: users, the items they own, the trade proposals that swap
// item ownership, and the notifications generated along the way.
//
// Entities validate themselves; persistence and transport concerns live in
// the store and api packages respectively.
package domain
