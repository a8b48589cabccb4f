package bind_group_provider

// BufferWrite queues Data for the buffer at Binding of Provider, starting at Offset. Writes for a
// submit are collected first and flushed with queue.WriteBuffer before the pass is encoded.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Empty reports whether the write has nothing to upload.
func (w BufferWrite) Empty() bool {
	return w.Provider == nil || len(w.Data) == 0
}
