package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go/varint"
)

// ErrTruncated indicates that serialized data ended before a complete value
// could be decoded.
var ErrTruncated = errors.New("truncated serialized data")

// Serializer values for core types, built on mus-format varint primitives.
// Field order is part of the storage format; new fields go at the end.
var (
	IDMUS       = idMUS{}
	StatusMUS   = statusMUS{}
	FileRefMUS  = fileRefMUS{}
	DocumentMUS = documentMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type statusMUS struct{}

func (statusMUS) Marshal(s Status, bs []byte) int {
	return varint.Int.Marshal(int(s), bs)
}

func (statusMUS) Unmarshal(bs []byte) (Status, int, error) {
	v, n, err := varint.Int.Unmarshal(bs)
	return Status(v), n, err
}

func (statusMUS) Size(s Status) int {
	return varint.Int.Size(int(s))
}

type fileRefMUS struct{}

func (fileRefMUS) Marshal(f FileRef, bs []byte) int {
	n := marshalString(f.URL, bs)
	n += marshalString(f.StorageKey, bs[n:])
	n += marshalString(f.OriginalName, bs[n:])
	n += marshalString(f.ContentType, bs[n:])
	n += varint.Int64.Marshal(f.Size, bs[n:])
	return n
}

func (fileRefMUS) Unmarshal(bs []byte) (f FileRef, n int, err error) {
	var n1 int
	if f.URL, n, err = unmarshalString(bs); err != nil {
		return
	}
	if f.StorageKey, n1, err = unmarshalString(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.OriginalName, n1, err = unmarshalString(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.ContentType, n1, err = unmarshalString(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	f.Size, n1, err = varint.Int64.Unmarshal(bs[n:])
	return f, n + n1, err
}

func (fileRefMUS) Size(f FileRef) int {
	return sizeString(f.URL) + sizeString(f.StorageKey) + sizeString(f.OriginalName) +
		sizeString(f.ContentType) + varint.Int64.Size(f.Size)
}

type documentMUS struct{}

func (documentMUS) Marshal(d Document, bs []byte) int {
	n := IDMUS.Marshal(d.Id, bs)
	n += marshalString(d.Kind, bs[n:])
	n += marshalString(d.Title, bs[n:])
	n += marshalString(d.Author, bs[n:])
	n += marshalString(d.StudentID, bs[n:])
	n += marshalString(d.Program, bs[n:])
	n += marshalString(d.Faculty, bs[n:])
	n += varint.Int.Marshal(d.Year, bs[n:])
	n += marshalStringSlice(d.Advisors, bs[n:])
	n += marshalStringSlice(d.Keywords, bs[n:])
	n += marshalString(d.Abstract, bs[n:])
	n += StatusMUS.Marshal(d.Status, bs[n:])
	n += marshalString(d.RejectionReason, bs[n:])
	n += marshalVector(d.Vector, bs[n:])
	n += varint.Uint64.Marshal(d.Revision, bs[n:])
	n += FileRefMUS.Marshal(d.File, bs[n:])
	n += marshalString(d.Owner, bs[n:])
	n += marshalTime(d.InsertedAt, bs[n:])
	n += marshalTime(d.UpdatedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	steps := []func([]byte) (int, error){
		func(b []byte) (int, error) { var m int; d.Id, m, err = IDMUS.Unmarshal(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Kind, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Title, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Author, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.StudentID, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Program, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Faculty, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Year, m, err = varint.Int.Unmarshal(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Advisors, m, err = unmarshalStringSlice(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Keywords, m, err = unmarshalStringSlice(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Abstract, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Status, m, err = StatusMUS.Unmarshal(b); return m, err },
		func(b []byte) (int, error) { var m int; d.RejectionReason, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Vector, m, err = unmarshalVector(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Revision, m, err = varint.Uint64.Unmarshal(b); return m, err },
		func(b []byte) (int, error) { var m int; d.File, m, err = FileRefMUS.Unmarshal(b); return m, err },
		func(b []byte) (int, error) { var m int; d.Owner, m, err = unmarshalString(b); return m, err },
		func(b []byte) (int, error) { var m int; d.InsertedAt, m, err = unmarshalTime(b); return m, err },
		func(b []byte) (int, error) { var m int; d.UpdatedAt, m, err = unmarshalTime(b); return m, err },
	}
	for _, step := range steps {
		m, stepErr := step(bs[n:])
		n += m
		if stepErr != nil {
			return d, n, stepErr
		}
	}
	return d, n, nil
}

func (documentMUS) Size(d Document) int {
	size := IDMUS.Size(d.Id)
	size += sizeString(d.Kind)
	size += sizeString(d.Title)
	size += sizeString(d.Author)
	size += sizeString(d.StudentID)
	size += sizeString(d.Program)
	size += sizeString(d.Faculty)
	size += varint.Int.Size(d.Year)
	size += sizeStringSlice(d.Advisors)
	size += sizeStringSlice(d.Keywords)
	size += sizeString(d.Abstract)
	size += StatusMUS.Size(d.Status)
	size += sizeString(d.RejectionReason)
	size += sizeVector(d.Vector)
	size += varint.Uint64.Size(d.Revision)
	size += FileRefMUS.Size(d.File)
	size += sizeString(d.Owner)
	size += sizeTime(d.InsertedAt)
	size += sizeTime(d.UpdatedAt)
	return size
}

// strings: varint length prefix followed by raw bytes

func marshalString(s string, bs []byte) int {
	n := varint.Int.Marshal(len(s), bs)
	return n + copy(bs[n:], s)
}

func unmarshalString(bs []byte) (string, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return "", n, err
	}
	if length < 0 || len(bs[n:]) < length {
		return "", n, ErrTruncated
	}
	return string(bs[n : n+length]), n + length, nil
}

func sizeString(s string) int {
	return varint.Int.Size(len(s)) + len(s)
}

// string slices: varint element count followed by each string

func marshalStringSlice(items []string, bs []byte) int {
	n := varint.Int.Marshal(len(items), bs)
	for _, item := range items {
		n += marshalString(item, bs[n:])
	}
	return n
}

func unmarshalStringSlice(bs []byte) ([]string, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 || count > len(bs[n:]) {
		return nil, n, ErrTruncated
	}
	if count == 0 {
		return nil, n, nil
	}
	items := make([]string, count)
	for i := range items {
		item, m, err := unmarshalString(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		items[i] = item
	}
	return items, n, nil
}

func sizeStringSlice(items []string) int {
	size := varint.Int.Size(len(items))
	for _, item := range items {
		size += sizeString(item)
	}
	return size
}

// embedding vectors: varint element count followed by varint-encoded float32s

func marshalVector(vector []float32, bs []byte) int {
	n := varint.Int.Marshal(len(vector), bs)
	for _, v := range vector {
		n += varint.Float32.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) ([]float32, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 || count > len(bs[n:]) {
		return nil, n, ErrTruncated
	}
	if count == 0 {
		return nil, n, nil
	}
	vector := make([]float32, count)
	for i := range vector {
		v, m, err := varint.Float32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		vector[i] = v
	}
	return vector, n, nil
}

func sizeVector(vector []float32) int {
	size := varint.Int.Size(len(vector))
	for _, v := range vector {
		size += varint.Float32.Size(v)
	}
	return size
}

// timestamps: microsecond precision, matching the storage index resolution

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
