package executor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/extension"
	"github.com/viant/approvalflow/model/types"
)

type greetInput struct {
	Name string
}

type greetOutput struct {
	Greeting string
}

type greeter struct{}

func (g *greeter) Name() string { return "greeter" }

func (g *greeter) Methods() types.Signatures {
	return []types.Signature{{Name: "greet", Input: reflect.TypeOf(&greetInput{}), Output: reflect.TypeOf(&greetOutput{})}}
}

func (g *greeter) Method(name string) (types.Executable, error) {
	if strings.ToLower(name) != "greet" {
		return nil, types.NewMethodNotFoundError(name)
	}
	return func(_ context.Context, in, out interface{}) error {
		input := in.(*greetInput)
		if input.Name == "" {
			return errors.New("name was empty")
		}
		out.(*greetOutput).Greeting = "hello " + input.Name
		return nil
	}, nil
}

func TestService_Execute(t *testing.T) {
	type call struct {
		service string
		method  string
		err     error
	}
	var calls []call
	srv := NewService(extension.NewActions(&greeter{}), WithListener(func(service, method string, _, _ interface{}, err error) {
		calls = append(calls, call{service: service, method: method, err: err})
	}))

	testCases := []struct {
		description string
		service     string
		method      string
		input       interface{}
		expected    string
		expectedErr error
		hasErr      bool
	}{
		{description: "typed input", service: "greeter", method: "greet", input: &greetInput{Name: "alice"}, expected: "hello alice"},
		{description: "converted input", service: "greeter", method: "greet", input: map[string]interface{}{"Name": "bob"}, expected: "hello bob"},
		{description: "method failure", service: "greeter", method: "greet", input: &greetInput{}, hasErr: true},
		{description: "unknown service", service: "printer", method: "print", expectedErr: ErrServiceNotFound, hasErr: true},
		{description: "unknown method", service: "greeter", method: "wave", expectedErr: ErrMethodNotFound, hasErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			calls = nil
			output := &greetOutput{}
			err := srv.Execute(context.Background(), tc.service, tc.method, tc.input, output)
			require.Len(t, calls, 1)
			assert.Equal(t, tc.service, calls[0].service)
			if tc.hasErr {
				assert.Error(t, err)
				assert.Equal(t, err, calls[0].err)
				if tc.expectedErr != nil {
					assert.True(t, errors.Is(err, tc.expectedErr))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, output.Greeting)
		})
	}
}
