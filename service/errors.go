package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bom"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/forecast"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/jurisdiction"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/payroll"
)

// connectError 将领域错误映射为connect错误码
func connectError(err error) error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return err
	}
	code := connect.CodeInternal
	switch {
	case errors.Is(err, jurisdiction.ErrUnknownJurisdiction):
		code = connect.CodeNotFound
	case errors.Is(err, bracket.ErrInvalidConfiguration):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, bracket.ErrInvalidInput),
		errors.Is(err, payroll.ErrInvalidRun),
		errors.Is(err, bom.ErrInvalidBOM),
		errors.Is(err, forecast.ErrInvalidRequest),
		errors.Is(err, errMissingTenant):
		code = connect.CodeInvalidArgument
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}
	if code == connect.CodeInternal {
		log.Errorf("internal error: %v", err)
	}
	return connect.NewError(code, err)
}
