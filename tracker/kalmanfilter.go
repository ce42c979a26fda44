package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// KalmanFilter estimates track motion with a constant velocity model over
// the state (x, y, aspect, height, vx, vy, va, vh)
type KalmanFilter struct {
	stdWeightPosition float64
	stdWeightVelocity float64
	// motionMat is the 8x8 state transition matrix
	motionMat *mat.Dense
	// updateMat is the 4x8 projection from state to measurement space
	updateMat *mat.Dense
}

// NewKalmanFilter initializes and returns a new KalmanFilter using the
// standard ByteTrack noise weights
func NewKalmanFilter() *KalmanFilter {

	const ndim = 4
	const dt = 1.0

	motionMat := mat.NewDense(2*ndim, 2*ndim, nil)

	for i := 0; i < 2*ndim; i++ {
		motionMat.Set(i, i, 1.0)
	}

	for i := 0; i < ndim; i++ {
		motionMat.Set(i, ndim+i, dt)
	}

	updateMat := mat.NewDense(ndim, 2*ndim, nil)

	for i := 0; i < ndim; i++ {
		updateMat.Set(i, i, 1.0)
	}

	return &KalmanFilter{
		stdWeightPosition: 1.0 / 20,
		stdWeightVelocity: 1.0 / 160,
		motionMat:         motionMat,
		updateMat:         updateMat,
	}
}

// Initiate creates the state mean and covariance for a new track from an
// (x, y, aspect, height) measurement
func (kf *KalmanFilter) Initiate(measurement []float64) (*mat.VecDense, *mat.Dense) {

	mean := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		mean.SetVec(i, measurement[i])
	}

	h := measurement[3]

	std := []float64{
		2 * kf.stdWeightPosition * h,
		2 * kf.stdWeightPosition * h,
		1e-2,
		2 * kf.stdWeightPosition * h,
		10 * kf.stdWeightVelocity * h,
		10 * kf.stdWeightVelocity * h,
		1e-5,
		10 * kf.stdWeightVelocity * h,
	}

	cov := mat.NewDense(8, 8, nil)

	for i, v := range std {
		cov.Set(i, i, v*v)
	}

	return mean, cov
}

// Predict advances the state mean and covariance one time step
func (kf *KalmanFilter) Predict(mean *mat.VecDense, cov *mat.Dense) {

	h := mean.AtVec(3)

	std := []float64{
		kf.stdWeightPosition * h,
		kf.stdWeightPosition * h,
		1e-2,
		kf.stdWeightPosition * h,
		kf.stdWeightVelocity * h,
		kf.stdWeightVelocity * h,
		1e-5,
		kf.stdWeightVelocity * h,
	}

	motionCov := mat.NewDense(8, 8, nil)

	for i, v := range std {
		motionCov.Set(i, i, v*v)
	}

	var nextMean mat.VecDense
	nextMean.MulVec(kf.motionMat, mean)
	mean.CopyVec(&nextMean)

	var tmp, nextCov mat.Dense
	tmp.Mul(kf.motionMat, cov)
	nextCov.Mul(&tmp, kf.motionMat.T())
	nextCov.Add(&nextCov, motionCov)
	cov.Copy(&nextCov)
}

// Update corrects the state mean and covariance with a new
// (x, y, aspect, height) measurement
func (kf *KalmanFilter) Update(mean *mat.VecDense, cov *mat.Dense,
	measurement []float64) error {

	projMean, projCov := kf.project(mean, cov)

	// cholesky factorization of the projected covariance for the gain solve
	sym := mat.NewSymDense(4, nil)

	for i := 0; i < 4; i++ {
		for j := i; j < 4; j++ {
			sym.SetSym(i, j, projCov.At(i, j))
		}
	}

	var chol mat.Cholesky

	if ok := chol.Factorize(sym); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	var b mat.Dense
	b.Mul(cov, kf.updateMat.T())

	// gainT holds the transposed kalman gain (4x8)
	var gainT mat.Dense
	err := chol.SolveTo(&gainT, b.T())

	if err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	innovation := mat.NewVecDense(4, nil)

	for i := 0; i < 4; i++ {
		innovation.SetVec(i, measurement[i]-projMean.AtVec(i))
	}

	var delta mat.VecDense
	delta.MulVec(gainT.T(), innovation)
	mean.AddVec(mean, &delta)

	// cov = cov - K * projCov * K'
	var tmp, tmp2 mat.Dense
	tmp.Mul(gainT.T(), projCov)
	tmp2.Mul(&tmp, &gainT)
	cov.Sub(cov, &tmp2)

	return nil
}

// project maps the state mean and covariance into measurement space and
// adds the measurement noise covariance
func (kf *KalmanFilter) project(mean *mat.VecDense,
	cov *mat.Dense) (*mat.VecDense, *mat.Dense) {

	h := mean.AtVec(3)

	std := []float64{
		kf.stdWeightPosition * h,
		kf.stdWeightPosition * h,
		1e-1,
		kf.stdWeightPosition * h,
	}

	innovationCov := mat.NewDense(4, 4, nil)

	for i, v := range std {
		innovationCov.Set(i, i, v*v)
	}

	projMean := mat.NewVecDense(4, nil)
	projMean.MulVec(kf.updateMat, mean)

	var tmp, projCov mat.Dense
	tmp.Mul(kf.updateMat, cov)
	projCov.Mul(&tmp, kf.updateMat.T())
	projCov.Add(&projCov, innovationCov)

	return projMean, &projCov
}
