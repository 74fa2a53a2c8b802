package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Handwritten MUS serializers for the persisted graph shapes. Timestamps are
// stored as Unix microseconds.

var (
	stringSliceMUS = ord.NewSliceSer[string](ord.String)
	vectorMUS      = ord.NewSliceSer[float32](raw.Float32)
)

// IDMUS serializes node identifiers.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

// TicketRecordMUS serializes GraphTicketRecord values.
var TicketRecordMUS = ticketRecordMUS{}

type ticketRecordMUS struct{}

func (ticketRecordMUS) Size(r GraphTicketRecord) (size int) {
	size += ord.String.Size(r.TicketID)
	size += ord.String.Size(r.Protocol)
	size += ord.String.Size(r.Title)
	size += ord.String.Size(r.System)
	size += ord.String.Size(r.Module)
	size += ord.String.Size(r.Functionality)
	size += ord.String.Size(r.SymptomCategory)
	size += ord.String.Size(r.SymptomDetail)
	size += ord.String.Size(r.CauseCategory)
	size += ord.String.Size(r.CauseDetail)
	size += ord.String.Size(r.SolutionCategory)
	size += ord.String.Size(r.SolutionDetail)
	size += vectorMUS.Size(r.SymptomVector)
	size += stringSliceMUS.Size(r.ErrorCodes)
	size += stringSliceMUS.Size(r.EventCodes)
	size += stringSliceMUS.Size(r.Tags)
	size += varint.Int64.Size(r.IngestedAt.UnixMicro())
	return size
}

func (ticketRecordMUS) Marshal(r GraphTicketRecord, bs []byte) (n int) {
	n += ord.String.Marshal(r.TicketID, bs[n:])
	n += ord.String.Marshal(r.Protocol, bs[n:])
	n += ord.String.Marshal(r.Title, bs[n:])
	n += ord.String.Marshal(r.System, bs[n:])
	n += ord.String.Marshal(r.Module, bs[n:])
	n += ord.String.Marshal(r.Functionality, bs[n:])
	n += ord.String.Marshal(r.SymptomCategory, bs[n:])
	n += ord.String.Marshal(r.SymptomDetail, bs[n:])
	n += ord.String.Marshal(r.CauseCategory, bs[n:])
	n += ord.String.Marshal(r.CauseDetail, bs[n:])
	n += ord.String.Marshal(r.SolutionCategory, bs[n:])
	n += ord.String.Marshal(r.SolutionDetail, bs[n:])
	n += vectorMUS.Marshal(r.SymptomVector, bs[n:])
	n += stringSliceMUS.Marshal(r.ErrorCodes, bs[n:])
	n += stringSliceMUS.Marshal(r.EventCodes, bs[n:])
	n += stringSliceMUS.Marshal(r.Tags, bs[n:])
	n += varint.Int64.Marshal(r.IngestedAt.UnixMicro(), bs[n:])
	return n
}

func (ticketRecordMUS) Unmarshal(bs []byte) (r GraphTicketRecord, n int, err error) {
	var n1 int
	for _, field := range []*string{
		&r.TicketID, &r.Protocol, &r.Title,
		&r.System, &r.Module, &r.Functionality,
		&r.SymptomCategory, &r.SymptomDetail,
		&r.CauseCategory, &r.CauseDetail,
		&r.SolutionCategory, &r.SolutionDetail,
	} {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	r.SymptomVector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.ErrorCodes, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.EventCodes, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Tags, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var usec int64
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.IngestedAt = time.UnixMicro(usec).UTC()
	return
}

// CategoryNodeMUS serializes CategoryNode values.
var CategoryNodeMUS = categoryNodeMUS{}

type categoryNodeMUS struct{}

func (categoryNodeMUS) Size(c CategoryNode) int {
	return ord.String.Size(string(c.Kind)) + ord.String.Size(c.Name)
}

func (categoryNodeMUS) Marshal(c CategoryNode, bs []byte) (n int) {
	n += ord.String.Marshal(string(c.Kind), bs[n:])
	n += ord.String.Marshal(c.Name, bs[n:])
	return n
}

func (categoryNodeMUS) Unmarshal(bs []byte) (c CategoryNode, n int, err error) {
	var kind string
	var n1 int
	kind, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	c.Kind = CategoryKind(kind)
	c.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

// EntityNodeMUS serializes EntityNode values.
var EntityNodeMUS = entityNodeMUS{}

type entityNodeMUS struct{}

func (entityNodeMUS) Size(e EntityNode) int {
	return ord.String.Size(string(e.Kind)) + ord.String.Size(e.Code)
}

func (entityNodeMUS) Marshal(e EntityNode, bs []byte) (n int) {
	n += ord.String.Marshal(string(e.Kind), bs[n:])
	n += ord.String.Marshal(e.Code, bs[n:])
	return n
}

func (entityNodeMUS) Unmarshal(bs []byte) (e EntityNode, n int, err error) {
	var kind string
	var n1 int
	kind, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	e.Kind = EntityKind(kind)
	e.Code, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

// ResourceNodeMUS serializes ResourceNode values.
var ResourceNodeMUS = resourceNodeMUS{}

type resourceNodeMUS struct{}

func (resourceNodeMUS) Size(r ResourceNode) int {
	return varint.Int.Size(r.Level) + ord.String.Size(r.Name) + ord.String.Size(r.Parent)
}

func (resourceNodeMUS) Marshal(r ResourceNode, bs []byte) (n int) {
	n += varint.Int.Marshal(r.Level, bs[n:])
	n += ord.String.Marshal(r.Name, bs[n:])
	n += ord.String.Marshal(r.Parent, bs[n:])
	return n
}

func (resourceNodeMUS) Unmarshal(bs []byte) (r ResourceNode, n int, err error) {
	var n1 int
	r.Level, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Parent, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}
