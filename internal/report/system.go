package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/SVCheck/internal/exitcode"
	"github.com/IBM/SVCheck/internal/svapi"
)

// systemInfo is the subset of the lssystem payload the summary sheet uses
type systemInfo struct {
	ProductName                     string     `json:"product_name"`
	Name                            string     `json:"name"`
	ID                              string     `json:"id"`
	CodeLevel                       string     `json:"code_level"`
	ConsoleIP                       string     `json:"console_IP"`
	EmailOrganization               string     `json:"email_organization"`
	EmailContact                    string     `json:"email_contact"`
	EmailReply                      string     `json:"email_reply"`
	EmailContactPrimary             string     `json:"email_contact_primary"`
	AuthServiceConfigured           string     `json:"auth_service_configured"`
	AuthServiceType                 string     `json:"auth_service_type"`
	EnhancedCallhome                string     `json:"enhanced_callhome"`
	CensorCallhome                  string     `json:"censor_callhome"`
	RelationshipBandwidthLimit      string     `json:"relationship_bandwidth_limit"`
	TotalDriveRawCapacity           string     `json:"total_drive_raw_capacity"`
	PhysicalCapacity                string     `json:"physical_capacity"`
	PhysicalFreeCapacity            string     `json:"physical_free_capacity"`
	EasyTierAcceleration            string     `json:"easy_tier_acceleration"`
	CompressionActive               string     `json:"compression_active"`
	CompressionVirtualCapacity      string     `json:"compression_virtual_capacity"`
	CompressionCompressedCapacity   string     `json:"compression_compressed_capacity"`
	CompressionUncompressedCapacity string     `json:"compression_uncompressed_capacity"`
	DeduplicationCapacitySaving     string     `json:"deduplication_capacity_saving"`
	CachePrefetch                   string     `json:"cache_prefetch"`
	Tiers                           []tierInfo `json:"tiers"`
}

type tierInfo struct {
	Tier             string `json:"tier"`
	TierCapacity     string `json:"tier_capacity"`
	TierFreeCapacity string `json:"tier_free_capacity"`
}

// systemSummary renders lssystem as one human-readable record instead of
// the raw key dump. Different models and code levels report different
// tiers, so per-tier capacity columns are expanded from the tiers array.
func systemSummary(ctx context.Context, client *svapi.Client, session *svapi.Session) ([]svapi.Record, error) {
	raw, err := client.QueryRaw(ctx, session, "lssystem")
	if err != nil {
		return nil, err
	}

	var info systemInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("cannot decode lssystem payload: %v: %w", err, exitcode.ErrModelLoad)
	}

	record := svapi.NewRecord()
	record.Set("Product name", info.ProductName)
	record.Set("Product model", info.Name)
	record.Set("Serial", info.ID)
	record.Set("Code level", info.CodeLevel)
	record.Set("Console IP", info.ConsoleIP)
	record.Set("Contact organization", info.EmailOrganization)
	record.Set("Contact name", info.EmailContact)
	record.Set("Contact email", info.EmailReply)
	record.Set("Contact phone", info.EmailContactPrimary)
	record.Set("Auth service", info.AuthServiceConfigured)
	record.Set("Auth service type", info.AuthServiceType)
	record.Set("Callhome", info.EnhancedCallhome)
	record.Set("Callhome censor", info.CensorCallhome)
	record.Set("Copy rate", info.RelationshipBandwidthLimit)
	record.Set("Local raw capacity", info.TotalDriveRawCapacity)
	record.Set("Physical total", info.PhysicalCapacity)
	record.Set("Physical free", info.PhysicalFreeCapacity)
	record.Set("Easy tier", info.EasyTierAcceleration)
	record.Set("Compression", info.CompressionActive)
	record.Set("Compressed virtual", info.CompressionVirtualCapacity)
	record.Set("Compressed capacity", info.CompressionCompressedCapacity)
	record.Set("Uncompressed capacity", info.CompressionUncompressedCapacity)
	record.Set("Deduplication savings", info.DeduplicationCapacitySaving)
	record.Set("Cache prefetch", info.CachePrefetch)

	for _, tier := range info.Tiers {
		record.Set(tier.Tier+"_total", tier.TierCapacity)
		record.Set(tier.Tier+"_free", tier.TierFreeCapacity)
	}

	return []svapi.Record{record}, nil
}
