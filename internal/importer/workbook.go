package importer

import (
	"io"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ReadWorkbookRows 读取工作簿第一个工作表的所有行，单元格以显示文本返回
func ReadWorkbookRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &domain.ValidationError{Message: "无法解析工作簿文件"}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, &domain.ValidationError{Message: "工作簿中不存在工作表"}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
