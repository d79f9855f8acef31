// Package models defines the ledger entity model.
//
// # Entities
//
//   - User: an identity; the ledger only references user IDs.
//   - Expense: money fronted by its creator (the payer) for a set of participants.
//   - ExpenseItem: a line of an expense, shared by everyone or assigned to one participant.
//   - ExpenseShare: one obligation of a participant towards the expense creator.
//   - Payment: money sent from one user to another; settles shares at creation time.
//
// # Obligations are single rows
//
// Each obligation is stored once, on the debtor's side. Whether a share is
// "paid by" the viewer (the viewer is owed) or owed by the viewer is derived
// from Expense.CreatedBy at read time, see ShareRole.
//
// # Money
//
// Every amount is a shopspring decimal at minor-unit scale (see package money).
// Timestamps are Unix milliseconds.
//
// # Relationships
//
// Entities reference each other by ID string, never by pointer.
package models
