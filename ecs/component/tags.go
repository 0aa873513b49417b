package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// Name labels an entity so other entities can refer to it from prefabs.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
