package app

// Recorder receives domain events worth counting.
type Recorder interface {
	LogSubmitted()
	RoomCreated()
	RoomJoin(result string)
	RoomsEnded(n int)
}

// Join outcomes passed to Recorder.RoomJoin.
const (
	JoinOK          = "ok"
	JoinNotFound    = "not_found"
	JoinNotActive   = "not_active"
	JoinAlready     = "already_member"
	JoinFull        = "full"
	JoinStoreFailed = "error"
)

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) LogSubmitted()   {}
func (NopRecorder) RoomCreated()    {}
func (NopRecorder) RoomJoin(string) {}
func (NopRecorder) RoomsEnded(int)  {}
