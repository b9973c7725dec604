package memory

type Config struct {
	InitialCapacity int `json:"initialCapacity"`
}

func (self *Config) NewNodeDB() *NodeDB {
	return NewNodeDB(self.InitialCapacity)
}
