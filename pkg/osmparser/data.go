package osmparser

// Node is a raw OSM node with the lanelet2 tags the map engine reads.
type Node struct {
	ID       int64
	Lat, Lon float64
	Ele      float64
	Type     string
	Subtype  string
	LocalX   float64
	LocalY   float64
	HasLocal bool // true when both local_x and local_y are tagged
}

// Way is a raw OSM way. Area is set by the area=yes tag.
type Way struct {
	ID      int64
	NodeIDs []int64
	Area    bool
	Type    string
	Subtype string
}

type Member struct {
	Type string // node, way or relation
	Ref  int64
	Role string
}

// Participants holds the participant:* permission tags of a relation.
type Participants struct {
	Vehicle    bool
	Pedestrian bool
	Bicycle    bool
}

type Relation struct {
	ID            int64
	Type          string
	Subtype       string
	Region        string
	Location      string
	TurnDirection string
	OneWay        bool
	Participants  Participants
	Fallback      string
	Members       []Member
}

// Document holds the raw records in document order.
type Document struct {
	Nodes     []Node
	Ways      []Way
	Relations []Relation
}
