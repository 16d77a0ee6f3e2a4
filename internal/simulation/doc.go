// Package simulation implements the Monte Carlo reserve estimate.
//
// # Model
//
// For each trial, every policy in load order gets one claim count draw from
// the ClaimCountModel, then that many severity draws from the SeverityModel.
// The trial reserve is the sum of all severities. The estimate is the mean
// trial reserve over all trials.
//
// # Blocks and streams
//
// Trials are grouped into fixed blocks of BlockSize. Block b draws from
// Entropy.Stream(b) and its partial sum is kept in slot b; the grand total is
// summed in block order once every block is done. The result for a given
// seed is therefore the same for any worker count, including one.
//
// # Failure
//
// Any error from a sampler aborts the whole run. The engine never returns a
// partial mean.
package simulation
