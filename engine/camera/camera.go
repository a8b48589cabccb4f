package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	position  mgl32.Vec3
	direction mgl32.Vec3
	up        mgl32.Vec3

	fov            float32
	viewportWidth  float32
	viewportHeight float32
	near           float32
	far            float32

	viewMatrix              mgl32.Mat4
	projectionMatrix        mgl32.Mat4
	viewProjectionMatrix    mgl32.Mat4
	invViewProjectionMatrix mgl32.Mat4
}

// State is a copy of the mutable pose of a camera. It is used to make off-axis
// renders transactional: take a Snapshot, move the camera, then Restore.
type State struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
}

// Camera defines the interface for the editor's perspective camera.
// Position and direction are mutable; the view and projection matrices are only
// recomputed on Update (or on any setter that changes projection parameters), so a
// caller that moves the camera must call Update before rendering with it.
type Camera interface {
	// Position returns the world-space camera position.
	//
	// Returns:
	//   - mgl32.Vec3: the camera position
	Position() mgl32.Vec3

	// Direction returns the normalized view direction.
	//
	// Returns:
	//   - mgl32.Vec3: the view direction
	Direction() mgl32.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio derived from the viewport (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the projection matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view as computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// SetPosition moves the camera. Call Update to refresh the matrices.
	//
	// Parameters:
	//   - p: the new world-space position
	SetPosition(p mgl32.Vec3)

	// SetDirection sets the view direction. The vector is normalized before storage.
	// Call Update to refresh the matrices.
	//
	// Parameters:
	//   - d: the new view direction
	SetDirection(d mgl32.Vec3)

	// LookAt points the camera at a world-space target. Call Update to refresh the matrices.
	//
	// Parameters:
	//   - target: the point to look at
	LookAt(target mgl32.Vec3)

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - up: the up vector
	SetUp(up mgl32.Vec3)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetViewport sets the viewport size the aspect ratio is derived from and recomputes matrices.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	SetViewport(width, height int)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Update recomputes the view, projection and combined matrices from the current state.
	Update()

	// Snapshot captures the camera's position and direction.
	//
	// Returns:
	//   - State: the captured pose
	Snapshot() State

	// Restore sets position and direction back to a captured pose and recomputes matrices.
	// The restored vectors are bit-identical to the snapshot.
	//
	// Parameters:
	//   - s: a pose previously returned by Snapshot
	Restore(s State)

	// PickRay returns the world-space ray through a viewport pixel, using the matrices
	// of the last Update.
	//
	// Parameters:
	//   - screenX, screenY: pixel coordinates with the origin at the top-left
	//
	// Returns:
	//   - common.Ray: a ray starting on the near plane
	PickRay(screenX, screenY float32) common.Ray

	// Frustum returns the view frustum of the last Update.
	//
	// Returns:
	//   - common.Frustum: the six clip planes in world space
	Frustum() common.Frustum
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new perspective Camera with the editor defaults: 67 degree field
// of view, positioned at (0, 1, -3) looking toward (0, 1, -1), near 0.2 and far 10000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:             &sync.Mutex{},
		position:       mgl32.Vec3{0, 1, -3},
		direction:      mgl32.Vec3{0, 0, 1},
		up:             mgl32.Vec3{0, 1, 0},
		fov:            mgl32.DegToRad(67),
		viewportWidth:  1,
		viewportHeight: 1,
		near:           0.2,
		far:            10000,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect()
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *cameraImpl) SetDirection(d mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.direction = common.SafeNormalize(d)
}

func (c *cameraImpl) LookAt(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.direction = common.SafeNormalize(target.Sub(c.position))
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetViewport(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	c.viewportWidth = float32(width)
	c.viewportHeight = float32(height)
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Position: c.position, Direction: c.direction}
}

func (c *cameraImpl) Restore(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = s.Position
	c.direction = s.Direction
	c.updateMatrices()
}

func (c *cameraImpl) PickRay(screenX, screenY float32) common.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()

	ndcX := 2*screenX/c.viewportWidth - 1
	ndcY := 1 - 2*screenY/c.viewportHeight

	near := c.unproject(mgl32.Vec4{ndcX, ndcY, 0, 1})
	far := c.unproject(mgl32.Vec4{ndcX, ndcY, 1, 1})
	return common.Ray{Origin: near, Direction: common.SafeNormalize(far.Sub(near))}
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustum(c.viewProjectionMatrix)
}

// aspect returns the viewport aspect ratio. Caller must hold the mutex.
func (c *cameraImpl) aspect() float32 {
	return c.viewportWidth / c.viewportHeight
}

// unproject maps a clip-space point back to world space. Caller must hold the mutex.
func (c *cameraImpl) unproject(clip mgl32.Vec4) mgl32.Vec3 {
	world := c.invViewProjectionMatrix.Mul4x1(clip)
	if world.W() == 0 {
		return world.Vec3()
	}
	return world.Vec3().Mul(1 / world.W())
}

// updateMatrices recalculates the view, projection, view-projection and inverse
// view-projection matrices. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.position, c.position.Add(c.direction), c.up)
	c.projectionMatrix = common.Perspective(c.fov, c.aspect(), c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.invViewProjectionMatrix = c.viewProjectionMatrix.Inv()
}
