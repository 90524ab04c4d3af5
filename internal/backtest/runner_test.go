package backtest

import (
	"context"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/quantframe-lab/quantframe/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RunnerTestSuite struct {
	suite.Suite

	engine *Engine
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (suite *RunnerTestSuite) SetupTest() {
	suite.engine = NewEngine(nil)
}

func (suite *RunnerTestSuite) sweepRequests() []RunRequest {
	closes := stepCloses()
	series := dailySeries("TEST", closes)

	capitals := []float64{50_000, 100_000, 200_000}
	requests := make([]RunRequest, 0, len(capitals))

	for _, capital := range capitals {
		cfg := engineConfig("TEST", len(closes))
		cfg.InitialCapital = capital
		requests = append(requests, RunRequest{Config: cfg, Series: series})
	}

	return requests
}

func (suite *RunnerTestSuite) TestSweepMatchesSerialExecution() {
	requests := suite.sweepRequests()

	serial := make([]types.BacktestResult, 0, len(requests))

	for _, req := range requests {
		result, err := suite.engine.Run(req.Config, req.Series)
		suite.Require().NoError(err)

		serial = append(serial, result)
	}

	runner := NewSweepRunner(suite.engine, 3, nil)
	parallel, err := runner.RunAll(context.Background(), requests, nil)
	suite.Require().NoError(err)

	suite.Equal(serial, parallel)
}

func (suite *RunnerTestSuite) TestSingleWorkerProgressIsOrdered() {
	requests := suite.sweepRequests()

	var reported []int

	runner := NewSweepRunner(suite.engine, 1, nil)
	_, err := runner.RunAll(context.Background(), requests, optional.Some(ProgressCallback(func(completed, total int) {
		suite.Equal(len(requests), total)
		reported = append(reported, completed)
	})))

	suite.Require().NoError(err)
	suite.Equal([]int{1, 2, 3}, reported)
}

func (suite *RunnerTestSuite) TestRunErrorPropagates() {
	requests := suite.sweepRequests()
	requests[1].Config.InitialCapital = -1

	runner := NewSweepRunner(suite.engine, 2, nil)
	_, err := runner.RunAll(context.Background(), requests, nil)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidCapital))
}

func (suite *RunnerTestSuite) TestCancellationStopsDispatch() {
	requests := suite.sweepRequests()

	ctx, cancel := context.WithCancel(context.Background())

	runner := NewSweepRunner(suite.engine, 1, nil)
	results, err := runner.RunAll(ctx, requests, optional.Some(ProgressCallback(func(completed, total int) {
		cancel()
	})))

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeRunCancelled))
	suite.Nil(results)
}

func (suite *RunnerTestSuite) TestZeroWorkersFallsBackToOne() {
	runner := NewSweepRunner(suite.engine, 0, nil)

	results, err := runner.RunAll(context.Background(), suite.sweepRequests()[:1], nil)
	suite.Require().NoError(err)
	suite.Len(results, 1)
}
