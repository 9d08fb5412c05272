package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/viant/approvalflow/extension"
	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/metrics"
	"github.com/viant/approvalflow/tracing"
	"github.com/viant/structology/conv"
	"go.uber.org/zap"
)

// Listener is invoked once an action method completes, regardless of whether
// it returned an error.
type Listener func(service, method string, input, output interface{}, err error)

// ZapListener logs every invocation at debug level and failures at warn level
func ZapListener(logger *zap.Logger) Listener {
	return func(service, method string, input, output interface{}, err error) {
		fields := []zap.Field{zap.String(logging.KeyStep, service+"."+method)}
		if err != nil {
			logger.Warn("action failed", append(fields, zap.Error(err))...)
			return
		}
		logger.Debug("action executed", append(fields, zap.Any("input", input), zap.Any("output", output))...)
	}
}

// Option is used to customise the executor instance.
type Option func(*service)

// WithListener overrides the listener; nil disables the callback
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// WithMetrics sets step metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) {
		s.metrics = m
	}
}

// Service represents an action executor.
type Service interface {
	// Execute invokes service.method. When input or output do not match the
	// method signature they are converted.
	Execute(ctx context.Context, service, method string, input, output interface{}) error
}

type service struct {
	actions   *extension.Actions
	converter *conv.Converter
	listener  Listener
	metrics   *metrics.Metrics
}

// Execute executes an action method.
func (s *service) Execute(ctx context.Context, serviceName, methodName string, input, output interface{}) (err error) {
	step := serviceName + "." + methodName
	started := clock.Now()
	ctx, span := tracing.StartSpan(ctx, step)
	defer func() {
		tracing.EndSpan(span, err)
		s.metrics.ObserveStep(step, started, err)
		if s.listener != nil {
			s.listener(serviceName, methodName, input, output, err)
		}
	}()

	actionService := s.actions.Lookup(serviceName)
	if actionService == nil {
		return fmt.Errorf("%w: %v", ErrServiceNotFound, serviceName)
	}
	signature := actionService.Methods().Lookup(methodName)
	if signature == nil {
		return fmt.Errorf("%w: %v.%v", ErrMethodNotFound, serviceName, methodName)
	}
	method, err := actionService.Method(methodName)
	if err != nil {
		return fmt.Errorf("failed to find method %v for service %v: %w", methodName, serviceName, err)
	}

	typedInput, err := s.typed(signature.Input, input)
	if err != nil {
		return fmt.Errorf("failed to convert %v input: %w", step, err)
	}
	typedOutput := output
	if output == nil || reflect.TypeOf(output) != signature.Output {
		typedOutput = newValue(signature.Output)
	}
	if err = method(ctx, typedInput, typedOutput); err != nil {
		return err
	}
	if output != nil && typedOutput != output {
		if err = s.converter.Convert(typedOutput, output); err != nil {
			return fmt.Errorf("failed to convert %v output: %w", step, err)
		}
	}
	return nil
}

func (s *service) typed(target reflect.Type, value interface{}) (interface{}, error) {
	if value != nil && reflect.TypeOf(value) == target {
		return value, nil
	}
	ret := newValue(target)
	if value == nil {
		return ret, nil
	}
	if err := s.converter.Convert(value, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func newValue(t reflect.Type) interface{} {
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.New(t).Interface()
}

// NewService creates a new executor service instance.
func NewService(actions *extension.Actions, opts ...Option) Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	s := &service{
		actions:   actions,
		converter: conv.NewConverter(options),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
