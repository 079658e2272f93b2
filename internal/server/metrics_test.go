package server

import "testing"

func TestMetricsRecordRequest(t *testing.T) {
	m := &Metrics{}

	for _, status := range []int{200, 201, 404, 400, 500, 502} {
		m.RecordRequest(status)
	}

	snap := m.Snapshot()
	if snap["requests_total"] != 6 {
		t.Errorf("requests_total = %d, want 6", snap["requests_total"])
	}
	if snap["request_errors_4xx"] != 2 {
		t.Errorf("request_errors_4xx = %d, want 2", snap["request_errors_4xx"])
	}
	if snap["request_errors_5xx"] != 2 {
		t.Errorf("request_errors_5xx = %d, want 2", snap["request_errors_5xx"])
	}
}

func TestMetricsRecordUpload(t *testing.T) {
	m := &Metrics{}
	m.RecordUpload(100)
	m.RecordUpload(250)
	m.RecordUploadError()

	snap := m.Snapshot()
	if snap["uploads_total"] != 2 {
		t.Errorf("uploads_total = %d, want 2", snap["uploads_total"])
	}
	if snap["upload_bytes_total"] != 350 {
		t.Errorf("upload_bytes_total = %d, want 350", snap["upload_bytes_total"])
	}
	if snap["upload_errors_total"] != 1 {
		t.Errorf("upload_errors_total = %d, want 1", snap["upload_errors_total"])
	}
}
