package surface

import (
	"fmt"
	"sync"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
)

// document is an in-memory page made of a fixed set of regions. Regions are created once and
// only their content is ever replaced.
type document struct {
	mut     sync.RWMutex
	regions map[common.RegionID]common.RegionContent
	applied uint64
}

// NewDocument creates a document holding the provided regions, all empty
func NewDocument(regions ...common.RegionID) *document {
	doc := &document{
		regions: make(map[common.RegionID]common.RegionContent, len(regions)),
	}
	for _, region := range regions {
		doc.regions[region] = common.RegionContent{}
	}

	return doc
}

// NewDashboardDocument creates a document with every display region plus the status region
func NewDashboardDocument() *document {
	regions := append([]common.RegionID{}, common.DisplayRegions...)
	regions = append(regions, common.RegionStatus)

	return NewDocument(regions...)
}

// Apply replaces the content of every addressed region. The batch is validated before the
// first mutation so an invalid write leaves the whole document untouched.
func (doc *document) Apply(writes []common.RegionWrite) error {
	doc.mut.Lock()
	defer doc.mut.Unlock()

	for _, write := range writes {
		_, exists := doc.regions[write.Region]
		if !exists {
			return fmt.Errorf("%w: %s", ErrUnknownRegion, write.Region)
		}
		if !isKnownKind(write.Kind) {
			return fmt.Errorf("%w: %s for region %s", ErrUnknownWriteKind, write.Kind, write.Region)
		}
	}

	for _, write := range writes {
		doc.regions[write.Region] = contentFromWrite(write)
	}
	doc.applied++

	return nil
}

// Region returns a copy of the region's current content
func (doc *document) Region(region common.RegionID) (common.RegionContent, bool) {
	doc.mut.RLock()
	defer doc.mut.RUnlock()

	content, exists := doc.regions[region]
	if !exists {
		return common.RegionContent{}, false
	}

	return copyContent(content), true
}

// Regions returns a copy of all regions
func (doc *document) Regions() map[common.RegionID]common.RegionContent {
	doc.mut.RLock()
	defer doc.mut.RUnlock()

	result := make(map[common.RegionID]common.RegionContent, len(doc.regions))
	for region, content := range doc.regions {
		result[region] = copyContent(content)
	}

	return result
}

// NumApplied returns how many batches were applied so far
func (doc *document) NumApplied() uint64 {
	doc.mut.RLock()
	defer doc.mut.RUnlock()

	return doc.applied
}

// IsInterfaceNil returns true if the value under the interface is nil
func (doc *document) IsInterfaceNil() bool {
	return doc == nil
}

func isKnownKind(kind common.WriteKind) bool {
	switch kind {
	case common.WriteText, common.WriteRows, common.WriteItems:
		return true
	default:
		return false
	}
}

func contentFromWrite(write common.RegionWrite) common.RegionContent {
	content := common.RegionContent{Kind: write.Kind}
	switch write.Kind {
	case common.WriteText:
		content.Text = write.Text
	case common.WriteRows:
		content.Rows = copyRows(write.Rows)
	case common.WriteItems:
		content.Items = append(make([]string, 0, len(write.Items)), write.Items...)
	}

	return content
}

func copyContent(content common.RegionContent) common.RegionContent {
	result := common.RegionContent{
		Kind: content.Kind,
		Text: content.Text,
	}
	if content.Rows != nil {
		result.Rows = copyRows(content.Rows)
	}
	if content.Items != nil {
		result.Items = append(make([]string, 0, len(content.Items)), content.Items...)
	}

	return result
}

func copyRows(rows [][]string) [][]string {
	result := make([][]string, 0, len(rows))
	for _, row := range rows {
		result = append(result, append(make([]string, 0, len(row)), row...))
	}

	return result
}
