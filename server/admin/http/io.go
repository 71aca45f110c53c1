package adminserver

import (
	"io"

	"github.com/ipni/pin-provider/server/utils"
)

var (
	_ io.ReaderFrom = (*UploadReq)(nil)
	_ io.ReaderFrom = (*UploadRes)(nil)
	_ io.ReaderFrom = (*ExistsReq)(nil)
	_ io.ReaderFrom = (*ExistsRes)(nil)
	_ io.ReaderFrom = (*RemoveReq)(nil)
	_ io.ReaderFrom = (*RemoveRes)(nil)
	_ io.ReaderFrom = (*IDReq)(nil)
	_ io.ReaderFrom = (*IDRes)(nil)
	_ io.ReaderFrom = (*IndexReq)(nil)
	_ io.ReaderFrom = (*IndexRes)(nil)
	_ io.ReaderFrom = (*ProvidersRes)(nil)
	_ io.ReaderFrom = (*AuditRes)(nil)

	_ io.WriterTo = (*UploadReq)(nil)
	_ io.WriterTo = (*UploadRes)(nil)
	_ io.WriterTo = (*ExistsReq)(nil)
	_ io.WriterTo = (*ExistsRes)(nil)
	_ io.WriterTo = (*RemoveReq)(nil)
	_ io.WriterTo = (*RemoveRes)(nil)
	_ io.WriterTo = (*IDReq)(nil)
	_ io.WriterTo = (*IDRes)(nil)
	_ io.WriterTo = (*IndexReq)(nil)
	_ io.WriterTo = (*IndexRes)(nil)
	_ io.WriterTo = (*ProvidersRes)(nil)
	_ io.WriterTo = (*AuditRes)(nil)
)

func (r *UploadReq) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *UploadReq) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *UploadRes) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *UploadRes) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *ExistsReq) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *ExistsReq) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *ExistsRes) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *ExistsRes) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *RemoveReq) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *RemoveReq) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *RemoveRes) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *RemoveRes) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *IDReq) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *IDReq) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *IDRes) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *IDRes) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *IndexReq) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *IndexReq) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *IndexRes) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *IndexRes) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *ProvidersRes) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *ProvidersRes) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }

func (r *AuditRes) WriteTo(w io.Writer) (int64, error)  { return utils.MarshalToJson(w, r) }
func (r *AuditRes) ReadFrom(rd io.Reader) (int64, error) { return utils.UnmarshalAsJson(rd, r) }
