// Package mocks holds test doubles for the store, generator, auth and service
// interfaces. Most are function-field mocks: set the Fn field to script a
// call, or leave it nil to get the recorded default behaviour.
//
//	generations := &mocks.MockGenerationStore{
//	    CreateFn: func(ctx context.Context, g *domain.Generation) error {
//	        return errors.New("connection reset")
//	    },
//	}
//
// TestifyMockFlashcardStore uses testify/mock expectations instead.
package mocks
