// Package mocks provides centralized mock implementations for testing.
//
// Each mock has a function field per interface method for custom behavior and
// simple default fields for the common cases:
//
//	tokens := &mocks.MockTokenService{
//	    IssueFn: func(ctx context.Context, subject string, extra map[string]any) (string, error) {
//	        return "mocked-token", nil
//	    },
//	}
//
// When adding a new mock to this package, create a file named after the
// interface being mocked and assert the interface is satisfied.
package mocks
