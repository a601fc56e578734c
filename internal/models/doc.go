// Package models defines the core domain models for Splitroom.
//
// # Models
//
//   - User: Registered account plus its attached income and payment-method
//     records (simple bookkeeping, no derived logic).
//   - Room: A shared ("group") or single-user ("personal") ledger grouping
//     participants and expenses.
//   - Expense: A recorded spend with payer (SpentBy) and beneficiary
//     (SpentFor) line items.
//
// # Design Principles
//
//  1. **Integer cents**: All money amounts are int64 cents; there is no
//     floating-point arithmetic anywhere in the money path.
//  2. **Name-keyed split lines**: SpentBy/SpentFor entries reference
//     participants by display name, not user ID. This lets non-registered
//     people (e.g. a personal room's payment-method names) appear as payers
//     or beneficiaries. Two users sharing a display name are merged by the
//     settlement engine; see the settlement package docs.
//  3. **Avoid circular references**: Expenses reference their room by ID
//     string only; rooms hold no expense collection.
package models
