package manager

type backendNode struct {
	ID      int
	Label   string
	Address string
	Weight  int
	Mode    string
}

type port struct {
	ID        int
	Port      int
	Protocol  string
	Algorithm string
	Nodes     []backendNode
}

type loadBalancer struct {
	ID    int
	Label string
	Ports []port
}
