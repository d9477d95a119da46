package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含馆藏图书的核心属性
// 2. TotalCopies是馆藏副本总数,AvailableCopies是当前在馆可借副本数
// 3. 系统按副本"数量"记账,不追踪单册副本的身份(条码级追踪不在范围内)
// 4. 不变式: 0 <= AvailableCopies <= TotalCopies,由Ledger与仓储层共同保证
// 5. ISBN作为业务唯一标识(数据库层保证唯一性)
type Book struct {
	ID              uint
	ISBN            string // ISBN号(国际标准书号)
	Title           string // 书名
	Author          string // 作者
	Publisher       string // 出版社
	PublicationYear int    // 出版年份
	TotalCopies     int    // 馆藏副本总数
	AvailableCopies int    // 在馆可借副本数
	Description     string // 图书简介
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// 新入馆的图书所有副本都在馆,AvailableCopies = TotalCopies
func NewBook(isbn, title, author, publisher string, publicationYear, totalCopies int, description string) *Book {
	now := time.Now()
	return &Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Publisher:       publisher,
		PublicationYear: publicationYear,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasAvailableCopy 是否有可借副本
func (b *Book) HasAvailableCopy() bool {
	return b.AvailableCopies > 0
}

// AllCopiesOnShelf 是否所有副本都在馆(再归还即超出馆藏)
func (b *Book) AllCopiesOnShelf() bool {
	return b.AvailableCopies >= b.TotalCopies
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, author, publisher, description string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
}

// AddCopies 增加馆藏副本(采购补充)
// 业务规则:新增副本直接在馆可借
func (b *Book) AddCopies(count int) error {
	if count <= 0 {
		return ErrInvalidCopies
	}
	b.TotalCopies += count
	b.AvailableCopies += count
	b.UpdatedAt = time.Now()
	return nil
}
