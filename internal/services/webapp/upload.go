package webapp

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxImageBytes 是上传图片的大小上限。
const maxImageBytes = 10 << 20

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// handleSearchImage 接收 multipart 图片并产出反向图搜入口。
//
// 校验顺序：大小 -> 字段存在 -> 文件名 -> 扩展名；任何校验失败都在
// 触发适配器之前返回。图片内容只在本次请求内落一个临时文件，
// 所有退出路径（包括失败）都会删除，绝不跨请求保留。
func (s *Server) handleSearchImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("file too large"))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no image file provided"))
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if filename == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no file selected"))
		return
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid file type"))
		return
	}

	tmp, err := os.CreateTemp("", "osint_upload_*"+ext)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save upload: %w", err))
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, file)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save upload failed"))
		return
	}

	writeJSON(w, http.StatusOK, s.agg.SearchImage(r.Context(), filename))
}

// sanitizeFilename 去掉路径成分，只保留裸文件名。
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
