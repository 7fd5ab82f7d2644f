// Package service contains the application use cases that sit between the
// HTTP layer and the stores: saving accepted flashcards, listing and
// deleting them, and reading a user's generation history.
//
// Services receive their stores through constructor injection and always
// take the acting user's id as an explicit argument. Operations that touch
// more than one row run inside store.RunInTransaction.
package service
