package campus

import (
	"github.com/campusmap/campus/meshrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type AssetId string

type GeometryAsset struct {
	version  uint
	geometry *core.Geometry
}

// AssetServer owns shareable geometry. Entities reference it by AssetId so
// several meshes of the same size share one geometry.
type AssetServer struct {
	geometries map[AssetId]GeometryAsset
	boxes      map[mgl32.Vec3]AssetId
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		geometries: make(map[AssetId]GeometryAsset),
		boxes:      make(map[mgl32.Vec3]AssetId),
	}
}

func (server *AssetServer) LoadGeometry(geometry *core.Geometry) AssetId {
	id := makeAssetId()
	server.geometries[id] = GeometryAsset{version: 0, geometry: geometry}
	return id
}

// Box returns the shared box geometry of the given size.
func (server *AssetServer) Box(size mgl32.Vec3) AssetId {
	if id, ok := server.boxes[size]; ok {
		return id
	}
	id := server.LoadGeometry(core.NewBoxGeometry(size))
	server.boxes[size] = id
	return id
}

func (server *AssetServer) Geometry(id AssetId) (*core.Geometry, bool) {
	asset, ok := server.geometries[id]
	if !ok {
		return nil, false
	}
	return asset.geometry, true
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
