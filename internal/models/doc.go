// Package models defines the core domain records for Tally.
//
// Stored entities:
//   - User: a registered account with profile fields and a password digest
//   - Group: a named collection of users sharing expenses, with one owner
//   - Expense: a single amount paid by one member on behalf of the group
//
// Derived views (never persisted):
//   - GroupSummary: lightweight group listing entry
//   - GroupDetail: full group view with members, ledger and computed balances
//   - MemberBalance: one member's paid/owed/net position
//
// Relationships use ID strings instead of pointers to avoid circular
// references between users and groups.
package models
