package bind_group_provider

// BufferWrite is a staged upload the host applies with queue.WriteBuffer. Data may alias a
// staging buffer owned by the producer and is only valid until the producer's next frame.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	// Offset is in bytes from the start of the binding's buffer.
	Offset uint64
	Data   []byte
}

// Size returns the number of bytes the write covers.
func (w BufferWrite) Size() uint64 {
	return uint64(len(w.Data))
}

// End returns the byte offset just past the write, for checking it against BufferSize.
func (w BufferWrite) End() uint64 {
	return w.Offset + w.Size()
}
