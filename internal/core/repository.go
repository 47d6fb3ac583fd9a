package core

// Repository bundles the L0-L8 components rooted at one Layout, the way
// gitcore.Repository bundles its read-only caches around one gitDir/workDir
// pair. Unlike that type, Repository here holds no cached state — every
// method reads the filesystem fresh, consistent with spec §5's
// single-threaded synchronous model ("no operation suspends or yields").
type Repository struct {
	Layout   Layout
	Objects  ObjectStore
	Refs     RefStore
	Index    IndexStore
	Worktree Worktree
	Snapshot Snapshot
	Graph    CommitGraph
	Workflow Workflow
}

// Init creates a new repository at path and returns a Repository bound to
// it.
func Init(path string) (*Repository, error) {
	layout, err := Create(path)
	if err != nil {
		return nil, err
	}
	return newRepository(layout), nil
}

// Open finds the enclosing repository for path (walking upward) and returns
// a Repository bound to it.
func Open(path string) (*Repository, error) {
	layout, err := Find(path)
	if err != nil {
		return nil, err
	}
	return newRepository(layout), nil
}

func newRepository(layout Layout) *Repository {
	objects := ObjectStore{Layout: layout}
	refs := RefStore{Layout: layout}
	index := IndexStore{Layout: layout}
	worktree := Worktree{Layout: layout, Objects: objects}
	snapshot := Snapshot{Layout: layout, Objects: objects}
	graph := CommitGraph{Objects: objects}

	return &Repository{
		Layout:  layout,
		Objects: objects,
		Refs:    refs,
		Index:   index,
		Worktree: worktree,
		Snapshot: snapshot,
		Graph:    graph,
		Workflow: Workflow{
			Layout:   layout,
			Objects:  objects,
			Refs:     refs,
			Index:    index,
			Worktree: worktree,
			Snapshot: snapshot,
			Graph:    graph,
			ThreeWay: NewThreeWayMerger(),
		},
	}
}

// Peer returns a Peer bound to this repository as the local side of a
// fetch/push against another on-disk repository.
func (r *Repository) Peer() Peer {
	return Peer{Local: r.Layout}
}

// Resolve resolves name to an object id via §4.9's lookup order.
func (r *Repository) Resolve(name string) (ID, error) {
	return Resolve(r.Refs, name)
}
